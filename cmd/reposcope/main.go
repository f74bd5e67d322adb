// Command reposcope walks a repository (or monorepo) and reports its
// languages, frameworks, Docker topology, and exposed secrets.
package main

func main() {
	Execute()
}
