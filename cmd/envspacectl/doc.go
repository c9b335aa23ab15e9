// Package main implements envspacectl, the CLI for the envspace
// configuration server.
//
// # Quick Start
//
//	# Initialize the store and start serving
//	envspacectl server
//
//	# Bring the schema up to date without serving
//	envspacectl db migrate
//
//	# Create an account
//	envspacectl user create --email dev@example.com --password s3cret
//
// Configuration comes from envspace.yml (or --config / ENVSPACE_CONFIG)
// with ENVSPACE_* environment variables taking precedence.
package main
