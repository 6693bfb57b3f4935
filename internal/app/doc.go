// Package app contains the core application logic. It defines the App
// struct, its configuration and the lifecycle of one command: load a
// scenery, build the optical graph, then analyze, export or render it. It
// is decoupled from any specific entrypoint like a CLI.
package app
