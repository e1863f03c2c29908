// Package docker provides an implementation of the ric.Engine interface
// backed by the Docker Engine API.
//
// It talks to the daemon through the official Go client:
//   - API version negotiation on connect (Ping)
//   - Multiplexed stdout/stderr streams for container logs and exec sessions
//   - Engine errors classified as ric.ErrNotFound / ric.ErrConflict
//   - Local socket (default unix:///var/run/docker.sock) or any DOCKER_HOST
//
// Usage:
//
//	// Connects to the default socket, honouring DOCKER_HOST
//	engine, err := docker.New()
package docker
