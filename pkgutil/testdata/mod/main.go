package main

import "unrelated-name/sub"

func main() {
	println(sub.Twice(21))
}
