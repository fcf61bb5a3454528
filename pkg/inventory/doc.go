// Package inventory loads the fleet definition: which hosts to probe, how to
// log in, and how to decide that a card is free.
//
// A YAML inventory:
//
//	credentials:
//	  username: ubuntu
//	  privateKeyPath: ~/.ssh/fleet_rsa
//	knownHostsPath: ~/.ssh/known_hosts
//	timeout: 60s
//	concurrency: 4
//	policy:
//	  minFreeRatio: 0.5
//	  maxUtilization: 50
//	hosts:
//	  - name: ML-01
//	    address: 10.2.84.61
//	  - name: ML-02
//	    address: 10.2.84.221:2222
//
// The same document may be written as JSON. Hosts keep their file order,
// which is also the report order.
package inventory
