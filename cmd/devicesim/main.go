package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/park285/stripchess/internal/protocol"
	"github.com/park285/stripchess/internal/strip"
)

var premadeGame = []protocol.Command{
	{Origin: 1, Destination: 3, TimeRemaining: 590, TimeControl: 600},
	{Origin: 6, Destination: 4, TimeRemaining: 587, TimeControl: 600},
	{Origin: 3, Destination: 5, TimeRemaining: 580, TimeControl: 600},
	{Origin: 7, Destination: 6, TimeRemaining: 577, TimeControl: 600},
	{Origin: 2, Destination: 3, TimeRemaining: 570, TimeControl: 600},
}

func main() {
	cmdAddr := flag.String("cmd", envOr("COMMAND_ADDR", "127.0.0.1:65432"), "command address of the game")
	respAddr := flag.String("resp", envOr("RESPONSE_ADDR", "127.0.0.1:65433"), "address to receive responses on")
	timeout := flag.Duration("timeout", 10*time.Second, "wait for each response at most this long")
	game := flag.Bool("game", false, "send the premade five-move game")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [origin destination timeRemaining timeControl]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	dev := &protocol.Device{CommandAddr: *cmdAddr, ResponseAddr: *respAddr, Timeout: *timeout}

	switch {
	case *game:
		for i, cmd := range premadeGame {
			if i > 0 {
				time.Sleep(500 * time.Millisecond)
			}
			if err := exchange(ctx, dev, cmd); err != nil {
				log.Fatalf("%v", err)
			}
		}
	case flag.NArg() == 4:
		cmd, err := parseArgs(flag.Args())
		if err != nil {
			log.Fatalf("%v", err)
		}
		if err := exchange(ctx, dev, cmd); err != nil {
			log.Fatalf("%v", err)
		}
	case flag.NArg() == 0:
		interactive(ctx, dev)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func interactive(ctx context.Context, dev *protocol.Device) {
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("move (origin destination timeRemaining timeControl), 'game' or 'quit'> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "quit", "q":
			return
		case "game":
			for _, cmd := range premadeGame {
				if err := exchange(ctx, dev, cmd); err != nil {
					fmt.Println("error:", err)
					break
				}
			}
			continue
		}
		cmd, err := parseArgs(strings.Fields(strings.NewReplacer(",", " ", "[", " ", "]", " ").Replace(line)))
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		if err := exchange(ctx, dev, cmd); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func exchange(ctx context.Context, dev *protocol.Device, cmd protocol.Command) error {
	fmt.Println("sent:", cmd)
	resp, err := dev.Exchange(ctx, cmd)
	if err != nil {
		return err
	}
	status := "rejected"
	if resp.Accepted {
		status = "accepted"
	}
	fmt.Printf("response: %s (%s, outcome %s)\n", resp, status, resp.Outcome)
	return nil
}

func parseArgs(args []string) (protocol.Command, error) {
	if len(args) != 4 {
		return protocol.Command{}, fmt.Errorf("want 4 integers, got %d", len(args))
	}
	var v [4]int
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return protocol.Command{}, fmt.Errorf("argument %d: %w", i+1, err)
		}
		v[i] = n
	}
	return protocol.Command{
		Origin:        strip.Square(v[0]),
		Destination:   strip.Square(v[1]),
		TimeRemaining: v[2],
		TimeControl:   v[3],
	}, nil
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
