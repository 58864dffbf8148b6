// Package logging builds the zap loggers used across music-usher.
//
// A logger always writes human-readable lines to the console and can
// additionally write JSON entries to a size-rotated file:
//
//	logger, err := logging.New(logging.Config{
//	    Level:      "debug",
//	    OutputPath: "/var/log/music-usher.log",
//	    MaxSize:    10,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
// Loggers are passed explicitly to the packages that need them.
package logging
