// Package cache holds encoded snapshots in memory.
//
// LRU evicts by total byte size. When constructed with a resource.Controller,
// every cached byte is also charged against the controller's memory budget;
// entries the controller refuses are simply not cached.
package cache
