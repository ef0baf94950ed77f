package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/park285/stripchess/internal/msgcat"
	"github.com/park285/stripchess/internal/record"
)

func main() {
	tc := flag.Int("tc", 600, "time control in seconds, used for clocks without annotations")
	index := flag.Int("index", -2, "print only this half-move index (-1 = initial position)")
	messages := flag.String("messages", os.Getenv("MESSAGES_DIR"), "message override directory")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <record file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cat, err := msgcat.New(*messages)
	if err != nil {
		log.Fatalf("messages: %v", err)
	}
	path := flag.Arg(0)
	rec, warnings, err := record.ParseFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}

	fmt.Println(cat.Text("replay.header", map[string]any{
		"File": path, "HalfMoves": rec.HalfMoves(), "Result": string(rec.Result),
	}))
	for _, w := range warnings {
		fmt.Println(cat.Text("replay.warning", map[string]any{"Line": w.Line, "Reason": w.Reason}))
	}

	rp := record.NewReplay(rec, *tc)
	if *index != -2 {
		pos, err := rp.Seek(*index)
		if err != nil {
			log.Fatalf("%v", err)
		}
		printPosition(cat, pos)
		return
	}
	printPosition(cat, rp.Current())
	for {
		pos, ok := rp.Next()
		if !ok {
			break
		}
		printPosition(cat, pos)
	}
}

func printPosition(cat *msgcat.Catalog, pos record.Position) {
	fmt.Println(cat.Text("replay.position", map[string]any{
		"Index": pos.Index,
		"Move":  pos.LastMove,
		"Board": pos.Board.String(),
		"Turn":  string(pos.Turn),
		"White": fmt.Sprintf("%.0f", pos.WhiteSeconds),
		"Black": fmt.Sprintf("%.0f", pos.BlackSeconds),
	}))
	if len(pos.Skipped) > 0 {
		parts := make([]string, len(pos.Skipped))
		for i, h := range pos.Skipped {
			parts[i] = fmt.Sprint(h)
		}
		fmt.Println(cat.Text("replay.skipped", map[string]any{"Skipped": strings.Join(parts, ", ")}))
	}
}
