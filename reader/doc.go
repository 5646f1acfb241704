// Package reader is the entry point for turning a stream or a command into
// items.
//
// A Reader decides between two paths. When no ANSI parsing and no field
// selectors are configured it takes the raw path, which publishes lines
// verbatim. Otherwise every line is built through the collector.
//
//	r := reader.New(reader.WithMatchingNth("2"), reader.WithANSI(true))
//	rx, h := r.OfReader(os.Stdin)
//	for it, ok := rx.Recv(ctx); ok; it, ok = rx.Recv(ctx) {
//		fmt.Println(it.Text())
//	}
//	h.Wait()
package reader
