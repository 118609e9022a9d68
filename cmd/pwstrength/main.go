package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/hoshichaam/pasal_storefront_go/pkg/passwordpolicy"
)

func main() {
	var (
		jsonFlag   = flag.Bool("json", false, "Tulis hasil sebagai JSON per baris")
		strictFlag = flag.Bool("strict", false, "Exit code 1 kalau ada password yang tidak memenuhi policy")
	)
	flag.Parse()

	failed, err := run(os.Stdin, os.Stdout, *jsonFlag)
	if err != nil {
		log.Fatalf("gagal membaca input: %v", err)
	}
	if *strictFlag && failed > 0 {
		os.Exit(1)
	}
}

// run scores one password per input line and returns how many missed the policy.
func run(in io.Reader, out io.Writer, asJSON bool) (int, error) {
	failed := 0
	enc := json.NewEncoder(out)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		pw := sc.Text()
		a := passwordpolicy.Evaluate(pw)
		verr := passwordpolicy.Validate(pw)
		if verr != nil {
			failed++
		}

		if asJSON {
			line := map[string]any{
				"score":        a.Score,
				"tier":         a.Tier,
				"requirements": a.Requirements(),
			}
			if verr != nil {
				line["error"] = verr.Error()
			}
			if err := enc.Encode(line); err != nil {
				return failed, err
			}
			continue
		}

		status := "ok"
		if verr != nil {
			status = verr.Error()
		}
		fmt.Fprintf(out, "%3d %-6s %s\n", a.Score, a.Tier, status)
	}
	return failed, sc.Err()
}
