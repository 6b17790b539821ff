// Command blocktrace replays allocation traces against a block pool and
// prints the outcome of every step, the final block map and pool statistics.
package main

func main() {
	execute()
}
