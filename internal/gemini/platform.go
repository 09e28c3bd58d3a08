package gemini

import "runtime"

func platformString() string { return runtime.GOOS }
func archString() string     { return runtime.GOARCH }
