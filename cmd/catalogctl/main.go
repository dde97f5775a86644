// Command catalogctl imports and inspects POS catalog exports from the shell.
package main

func main() {
	execute()
}
