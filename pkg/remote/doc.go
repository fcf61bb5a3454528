// Package remote runs commands on fleet hosts over SSH.
//
// A Dialer opens one Session per host; each Session runs any number of
// commands on separate channels of the same connection and is closed once the
// host attempt ends, on success or failure.
//
// Authentication is by private key file only. Host keys are verified against
// a known_hosts file; accepting unknown hosts requires setting
// SSHConfig.InsecureIgnoreHostKey explicitly.
//
// Every blocking step honors the caller's context:
//
//	d, err := remote.NewSSHDialer(remote.SSHConfig{
//	    User:           "ubuntu",
//	    PrivateKeyPath: "/home/ubuntu/.ssh/id_ed25519",
//	    CommandTimeout: 30 * time.Second,
//	})
//	sess, err := d.Dial(ctx, "10.2.84.61")
//	defer sess.Close()
//	stdout, _, err := sess.Run(ctx, "nvidia-smi --query-gpu=memory.free --format=csv")
//
// Errors are pkg/errors StructuredErrors classified as SERVICE_UNAVAILABLE
// (unreachable), UNAUTHORIZED (key or host key rejected), TIMEOUT and
// COMMAND_FAILED (non-zero exit status).
package remote
