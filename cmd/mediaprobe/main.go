package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"mp4-converter/internal/probe"
	"mp4-converter/internal/tools"
)

// Default timeout for ffprobe and version calls
const defaultTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "probe":
		if len(os.Args) < 3 {
			printUsage()
			os.Exit(1)
		}
		err = runProbe(os.Args[2])
	case "check":
		err = runCheck()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runProbe inspects one file and prints its descriptor as JSON.
func runProbe(path string) error {
	prober, err := probe.New(os.Getenv("FFPROBE_PATH"))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	desc, err := prober.Probe(ctx, path)
	if err != nil {
		return err
	}
	return printJSON(desc)
}

// runCheck reports the availability of ffmpeg and ffprobe.
func runCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	statuses, err := tools.Check(ctx)
	if printErr := printJSON(statuses); printErr != nil {
		return printErr
	}
	return err
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: mediaprobe <command>

Commands:

  probe <file>  Inspect a video file with ffprobe and print its
                descriptor, including whether it needs conversion
                to play as H.264/AAC MP4.

  check         Report the availability and versions of the external
                tools (ffmpeg, ffprobe).

Environment:

  FFPROBE_PATH - Path to the ffprobe binary (default: bundled
                 directory next to the executable, then PATH)
`)
}
