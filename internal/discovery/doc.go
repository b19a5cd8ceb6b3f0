// Package discovery finds and announces script library servers on the local
// network using multicast DNS.
//
// Library servers register the "_premiere._tcp" service in the "local."
// domain with TXT records describing the API:
//
//	path=/api
//	version=v1.2.0
//	scripts=4
//
// # Scanning
//
//	libs, err := discovery.ScanForLibraries(ctx, 3*time.Second)
//	if err != nil {
//	    return err
//	}
//	for _, lib := range libs {
//	    fmt.Println(lib.Name, lib.BaseURL())
//	}
//
// Entries without an address are ignored. When a library answers with both
// IPv4 and IPv6 addresses the IPv4 address is used.
//
// # Advertising
//
//	adv := discovery.NewAdvertiser("Studio Library", 8080, version.Version)
//	adv.SetScriptCount(cat.Len())
//	go adv.Run(ctx)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Clients and servers must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
