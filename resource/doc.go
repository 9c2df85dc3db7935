// Package resource limits the memory and IO used by snapshot repositories.
//
// One Controller can be shared by several repositories so that their caches
// draw from a common memory budget and their blob traffic from a common
// bandwidth budget.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   256 << 20,
//	    MaxConcurrentIO:    8,
//	    IOLimitBytesPerSec: 64 << 20,
//	})
package resource
