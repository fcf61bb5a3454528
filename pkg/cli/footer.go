// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// timestampLayout renders times as DD/MM/YYYY HH:MM:SS AM.
const timestampLayout = "02/01/2006 03:04:05 PM"

// now is replaced in tests.
var now = time.Now

// runClock prints the run banner and, on stop, the end time and elapsed time.
type runClock struct {
	w     io.Writer
	start time.Time
}

func startClock(w io.Writer) *runClock {
	c := &runClock{w: w, start: now()}
	fmt.Fprintf(w, "Program started at %s\n", c.start.Format(timestampLayout))
	return c
}

// stop prints the footer. It runs on every exit path, failed runs included.
func (c *runClock) stop(err error) {
	end := now()
	if err != nil {
		slog.Error("run failed", slog.String("error", err.Error()))
	} else {
		slog.Info("run completed successfully")
	}
	fmt.Fprintf(c.w, "Program ended at %s\n", end.Format(timestampLayout))
	fmt.Fprintf(c.w, "Execution time: %s\n", formatElapsed(end.Sub(c.start)))
}

// formatElapsed renders d as [D day[s], ]H:MM:SS[.ffffff], truncated to
// microseconds.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Microsecond)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	us := d / time.Microsecond

	out := fmt.Sprintf("%d:%02d:%02d", h, m, s)
	if us > 0 {
		out += fmt.Sprintf(".%06d", us)
	}
	switch {
	case days == 1:
		out = "1 day, " + out
	case days > 1:
		out = fmt.Sprintf("%d days, %s", days, out)
	}
	return out
}
