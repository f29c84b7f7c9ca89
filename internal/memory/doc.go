// Package memory keeps thumbnail rendering inside a container's memory
// budget.
//
// Go sizes GOMAXPROCS from the cgroup CPU limit but not GOMEMLIMIT, and
// decoding a directory of large photos in parallel can allocate hundreds of
// megabytes. [ConfigureFromEnv] derives GOMEMLIMIT from MEMORY_LIMIT (bytes,
// e.g. from the Kubernetes Downward API) and MEMORY_RATIO (default 0.85).
// GOMEMLIMIT, when already set, wins.
//
// A [Monitor] samples the heap and pauses new renders above
// [Config.PauseMark], resuming once usage drops below [Config.ResumeMark]:
//
//	mon := memory.NewMonitor(memory.DefaultConfig())
//	mon.Start()
//	defer mon.Stop()
//	cache.SetThrottle(mon)
package memory
