package asbatch

/*
asbatch is a small client for an Aerospike style key-value store. It either loads synthetic user records into a
namespace/set, one Put per user, or scans the whole namespace/set and groups the records into fixed size batches for
bulk processing.

Building asbatch produces one executable, cmd/asbatch. Run it with -g to generate data, without it to scan.

The `asbatch` module is organized into the following packages:

* `cmd/asbatch`: the command line entry point.
* `config`: TOML configuration, property overrides and logger setup.
* `user`: the user record model and its bin layout.
* `generator`: writes synthetic users for a range of ids.
* `scan`: the scan batcher and batch processors.
* `store`: the store interface and its backends (`aerospike`, `leveldb`, `memory`).
* `measurement`: per operation latency histograms printed after a run.
* `metrics`: Prometheus metrics and the optional status server.
*/
