// Package client assembles the command-line application: configuration,
// local store, directory mirror, optional remote backend and the entry
// facade, plus the subcommand dispatch.
package client
