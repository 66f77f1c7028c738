// Command vecidx generates key datasets and benchmarks the vecidx index
// variants against them.
//
// Usage:
//
//	vecidx gen --elem 32 --count 1000000 --dist xxh3 keys.vds
//	vecidx bench --dataset keys.vds --strategy all --offset 32 --readers 4
//	vecidx bench --elem 64 --count 100000 --dist seq --strategy pivot-step
//	vecidx info [keys.vds]
package main

func main() {
	execute()
}
