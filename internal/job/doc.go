// Package job runs the download→compress→deliver pipeline for one chosen
// (URL, mode) pair.
//
// A job moves through validating, fetching, optional compressing, a final
// size gate, and delivery, with cleanup of local artifacts on every path
// that produced a file. The chat platform is reached only through the
// StatusSink and Deliverer ports, so the pipeline carries no knowledge of
// any particular bot framework.
package job
