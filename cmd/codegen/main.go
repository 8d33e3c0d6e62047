package main

import (
	"context"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/lazysignals/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const (
	genericParamCountKey = "count"
	outKey               = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate typed derive/watch combinators",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  genericParamCountKey,
				Usage: "Highest number of inputs to generate combinators for",
				Value: 4,
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "File to write",
				Value: "derive/derive.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for derive started !")
	defer func() {
		log.Printf("Codegen for derive finished in %v", time.Since(start))
	}()

	genericParamCount := cmd.Uint(genericParamCountKey)
	out := cmd.String(outKey)

	contents, err := format.Source([]byte(templates.DeriveGen(int(genericParamCount))))
	if err != nil {
		return err
	}

	written, err := writeIfChanged(out, contents)
	if err != nil {
		return err
	}
	if !written {
		log.Printf("%s is up to date", out)
	}
	return nil
}

// writeIfChanged leaves path alone when its contents already match, so the
// file's modification time only moves on real changes.
func writeIfChanged(path string, contents []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && xxhash.Sum64(existing) == xxhash.Sum64(contents) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		return false, err
	}
	return true, nil
}
