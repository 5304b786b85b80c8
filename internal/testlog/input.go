package testlog

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
	"golang.org/x/sync/errgroup"
)

// Load returns the lines of all inputs, in argument order. Without paths
// the lines are read from stdin.
func Load(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		log.Println("Processing logs from stdin...")
		return ReadLines(os.Stdin)
	}

	contents := make([][]string, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Debugf("Processing log file: %s", path)
			lines, err := readFile(path)
			if err != nil {
				return errors.Wrapf(err, "unable to read log file %s", path)
			}
			contents[i] = lines
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	lines := []string{}
	for _, c := range contents {
		lines = append(lines, c...)
	}
	return lines, nil
}

func readFile(path string) ([]string, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".xz") {
		return ReadLines(bytes.NewReader(dat))
	}
	r, err := xz.NewReader(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "invalid xz stream")
	}
	return ReadLines(r)
}

// ReadLines splits r into lines.
func ReadLines(r io.Reader) ([]string, error) {
	lines := []string{}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	return lines, s.Err()
}
