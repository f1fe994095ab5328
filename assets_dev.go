//go:build !release

package main

import "os"

func init() {
	assetSource = "filesystem"
	templatesFS = os.DirFS("templates")
	staticFS = os.DirFS("static")
}
