// Command tvrecon reconciles DVR recordings with provider episode metadata
// and organizes them into a TV library.
package main

func main() {
	Execute()
}
