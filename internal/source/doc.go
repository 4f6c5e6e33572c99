// Package source provides the configuration sources that tell the reconcile
// loop which routes exist.
//
//   - StaticSource returns the routes listed in config.yaml.
//   - DiskSource turns each service directory under a root into a disk route.
//     Watcher wakes the loop early when files there change.
//   - KubernetesSource lists DocumentRoute custom resources.
//
// A source returns routes in a stable order. Errors returned from Routes are
// reported by the loop as source failures and leave the cache untouched.
package source
