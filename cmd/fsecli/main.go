// Command fsecli is a thin driver over the fse package: it chunks a file
// into blocks, compresses or decompresses each through the core, and
// wraps them in the container package's small multi-block format. It
// plays the role the distilled specification named as an out-of-scope
// collaborator (the command-line driver) and is built to the same
// proportions as the teacher's own CLI: a dispatcher over the library,
// not a feature in itself.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"

	fse "github.com/neal-burns/FiniteStateEntropy"
	"github.com/neal-burns/FiniteStateEntropy/container"
	"github.com/neal-burns/FiniteStateEntropy/hash"
)

const chunkSize = 1 << 20 // 1 MiB per block, grounded in kanzi's own block-at-a-time container idiom

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error

	switch os.Args[1] {
	case "compress":
		err = runCompress(os.Args[2:])
	case "decompress":
		err = runDecompress(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		logrus.Errorf("fsecli: %v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fsecli <compress|decompress|bench> [flags]")
}

func runCompress(args []string) error {
	fs := flag.NewFlagSet("compress", flag.ExitOnError)
	in := fs.String("in", "", "input file path")
	out := fs.String("out", "", "output file path")
	tableLog := fs.Int("tableLog", 0, "requested tableLog (0 = automatic)")
	verbose := fs.Bool("verbose", false, "log pipeline stage events")
	profileMode := fs.String("profile", "", "cpu|mem|\"\" (pprof via pkg/profile)")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return fmt.Errorf("compress requires -in and -out")
	}

	stopProfile := startProfile(*profileMode)
	defer stopProfile()

	src, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	listeners := buildListeners(*verbose)
	hasher, _ := hash.NewXXHash64(0)

	var entries []container.Entry

	for offset := 0; offset < len(src); offset += chunkSize {
		end := offset + chunkSize
		if end > len(src) {
			end = len(src)
		}

		chunk := src[offset:end]

		block, _, err := fse.Compress2(chunk, 0, *tableLog, listeners)
		if err != nil {
			return fmt.Errorf("compressing chunk at offset %d: %w", offset, err)
		}

		entries = append(entries, container.Entry{
			OriginalSize: len(chunk),
			Checksum:     hasher.Hash(chunk),
			Block:        block,
		})
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}

	if err := container.Write(f, entries); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func runDecompress(args []string) error {
	fs := flag.NewFlagSet("decompress", flag.ExitOnError)
	in := fs.String("in", "", "input file path")
	out := fs.String("out", "", "output file path")
	verbose := fs.Bool("verbose", false, "log pipeline stage events")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return fmt.Errorf("decompress requires -in and -out")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}

	entries, err := container.Read(f)
	if err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	listeners := buildListeners(*verbose)
	hasher, _ := hash.NewXXHash64(0)

	var dst []byte

	for i, e := range entries {
		chunk, err := fse.Decompress(e.Block, e.OriginalSize, listeners)
		if err != nil {
			return fmt.Errorf("decompressing entry %d: %w", i, err)
		}

		if hasher.Hash(chunk) != e.Checksum {
			return fmt.Errorf("entry %d: checksum mismatch, container is corrupt", i)
		}

		dst = append(dst, chunk...)
	}

	return os.WriteFile(*out, dst, 0o644)
}

func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	in := fs.String("in", "", "input file path")
	iterations := fs.Int("iterations", 10, "number of compress+decompress round trips")
	profileMode := fs.String("profile", "", "cpu|mem|\"\" (pprof via pkg/profile)")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("bench requires -in")
	}

	src, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	stopProfile := startProfile(*profileMode)
	defer stopProfile()

	start := time.Now()

	for i := 0; i < *iterations; i++ {
		block, _, err := fse.Compress(src, nil)
		if err != nil {
			return err
		}

		if _, err := fse.Decompress(block, len(src), nil); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	mbps := float64(len(src)) * float64(*iterations) / elapsed.Seconds() / (1 << 20)
	fmt.Printf("%d iterations, %d bytes, %.2f MiB/s aggregate\n", *iterations, len(src), mbps)
	return nil
}

func buildListeners(verbose bool) fse.Listeners {
	return fse.Listeners{newLogrusListener(verbose)}
}

func startProfile(mode string) func() {
	switch mode {
	case "cpu":
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."))
		return p.Stop
	case "mem":
		p := profile.Start(profile.MemProfile, profile.ProfilePath("."))
		return p.Stop
	default:
		return func() {}
	}
}
