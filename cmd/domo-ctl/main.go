package main

import (
	"fmt"
	"os"

	"domo/internal/ipc"
)

func usage() {
	fmt.Println("usage: domo-ctl trigger | text <utterance> | clip <file> | say <text>")
	fmt.Println("       domo-ctl system <prompt> | addsystem <text> | clear | reset")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	msg := ipc.ControlMessage{Cmd: os.Args[1]}
	switch msg.Cmd {
	case "trigger", "clear", "reset":
	case "text", "clip", "say", "system", "addsystem":
		if len(os.Args) < 3 {
			usage()
		}
		msg.Arg = os.Args[2]
	default:
		usage()
	}

	if err := ipc.Send(msg); err != nil {
		fmt.Println("domo-daemon not running:", err)
		os.Exit(1)
	}
}
