// Package deviceinfo collects an advisory device descriptor that is sent
// alongside login requests so the backend can label sessions for the
// "active devices" view and anomaly detection.
//
// The descriptor is informational only. Nothing in it is verified and the
// server must never make authorization decisions from it.
//
//	info := deviceinfo.Collect("1.4.2")
//	fmt.Println(info) // "gymdesk-admin/1.4.2 linux/amd64 (front-desk-01)"
package deviceinfo
