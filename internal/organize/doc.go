// Package organize drives a complete run: scanning a source directory into
// a model.Library and exporting it into the Artist/Album layout.
//
// The Manager reports what it does through ProgressEvent callbacks and
// atomic counters, so both the command line and the terminal UI can follow
// a run while it is in progress:
//
//	manager := organize.NewManager(settings, nil, logger, func(e organize.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	if err := manager.Initialize(ctx, "/src"); err != nil {
//	    return err
//	}
//	if err := manager.StartExport(ctx, "/dst"); err != nil {
//	    return err
//	}
//	bytes, totalBytes, files, totalFiles := manager.GetProgress()
package organize
