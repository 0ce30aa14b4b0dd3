// Package main provides the entry point for Gatehouse, a small web application
// that lets visitors register an account, log in with email and password and
// reach a dashboard guarded by a server side session. Sessions live in a
// pluggable storage (memory, mysql, postgres or redis) and are identified by
// an encrypted cookie; user accounts are kept in mongodb or a gorm backed sql database.
package main
