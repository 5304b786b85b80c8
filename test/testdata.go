// Package test holds the log fixtures shared by the package tests.
package test

import "embed"

//go:embed testdata
var TestData embed.FS
