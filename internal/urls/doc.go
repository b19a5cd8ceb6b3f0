// Package urls holds the library server's route paths, shared by the server
// and its clients.
package urls
