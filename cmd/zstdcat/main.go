// Command zstdcat decompresses zstandard-compressed files to stdout, the
// way the standard zcat/gzcat tools do for their respective formats.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tinyzstd/tinyzstd/zstd"
)

var (
	maxWindow  = flag.Uint64("m", 1<<30, "maximum window size in bytes a frame is allowed to declare")
	skipSum    = flag.Bool("k", false, "skip verifying the trailing content checksum, if present")
	noReserved = flag.Bool("r", false, "accept frames with reserved header bits set instead of rejecting them")
)

func main() {
	flag.Parse()
	args := flag.Args()

	opts := []zstd.DOption{
		zstd.WithDecoderMaxWindow(*maxWindow),
		zstd.WithDecoderSkipChecksum(*skipSum),
		zstd.WithDecoderRejectReservedBits(!*noReserved),
	}

	if len(args) == 0 {
		exitErr(decodeOne(os.Stdin, opts))
		return
	}
	for _, name := range args {
		f, err := os.Open(name)
		exitErr(err)
		err = decodeOne(f, opts)
		f.Close()
		exitErr(err)
	}
}

func decodeOne(r io.Reader, opts []zstd.DOption) error {
	dec, err := zstd.NewDecoder(r, opts...)
	if err != nil {
		return err
	}
	defer dec.Close()
	_, err = dec.WriteTo(os.Stdout)
	return err
}

func exitErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "zstdcat: %v\n", err)
	os.Exit(1)
}
