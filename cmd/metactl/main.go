// Command metactl inspects table defaults and manages collection edit sets.
package main

func main() {
	execute()
}
