package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"domo/internal/audio"
	"domo/internal/chat"
	"domo/internal/command"
	"domo/internal/dispatch"
	"domo/internal/ipc"
	"domo/internal/notify"
	"domo/internal/proxy"
	"domo/internal/tts"
	"domo/pkg/audioconv"
	"domo/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

type daemon struct {
	mu       sync.Mutex // one turn at a time: session and hub are single-writer
	rec      *audio.Recorder
	whisper  *stt.Transcriber
	pipeline *command.Pipeline
	session  *chat.Session
	hub      *dispatch.Hub
	beepPath string
	speak    bool
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	catalogPath := cli.StringP("catalog", "c", "commands.json", "Device catalog path")
	historyPath := cli.String("history", "chat_history.json", "Chat history path (empty disables persistence)")
	modelPath := cli.String("whisper", "third_party/whisper.cpp/models/ggml-medium.bin", "Whisper model path")
	hubURL := cli.String("hub", "", "Device hub websocket url (empty logs commands only)")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (empty dials direct)")
	beepPath := cli.String("beep", "beep.mp3", "Recording cue sound")
	speak := cli.Bool("speak", true, "Voice replies through espeak")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevelMap[*logLevel],
	})))

	log.Info("Booting up")

	godotenv.Load(*envFile)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Error("OPENAI_API_KEY not set")
		os.Exit(1)
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if *proxyAddr != "" {
		httpClient, err := proxy.NewSocksClient(*proxyAddr)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", *proxyAddr, "err", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
		log.Debug("Loaded proxy")
	}
	client := openai.NewClient(opts...)

	// A bad catalog is the one fatal config error: running with a
	// half-understood device list risks driving the wrong hardware.
	catalog, err := command.LoadCatalogFile(*catalogPath)
	if err != nil {
		log.Error("Failed to load device catalog", "path", *catalogPath, "err", err)
		os.Exit(1)
	}
	log.Info("Loaded catalog", "devices", len(catalog.Devices()))

	classifier := command.NewOpenAIClassifier(client, openai.ChatModelGPT5Nano, catalog)
	pipeline := command.NewPipeline(classifier, catalog)

	session, err := chat.NewSession(client, openai.ChatModelGPT5Nano, chat.NewStore(*historyPath), 20)
	if err != nil {
		log.Error("Failed to load chat session", "err", err)
		os.Exit(1)
	}

	var hub *dispatch.Hub
	if *hubURL != "" {
		hub, err = dispatch.Connect(*hubURL, 5*time.Second, 10*time.Second)
		if err != nil {
			log.Error("Failed to connect to hub", "url", *hubURL, "err", err)
			os.Exit(1)
		}
		defer hub.Close()
	}

	rec := audio.NewRecorder(audio.Config{})
	if err := rec.Init(); err != nil {
		log.Error("Failed to init audio", "err", err)
		os.Exit(1)
	}
	defer rec.Close()

	whisper, err := stt.NewTranscriber(*modelPath)
	if err != nil {
		log.Error("Failed to init whisper", "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	d := &daemon{
		rec:      rec,
		whisper:  whisper,
		pipeline: pipeline,
		session:  session,
		hub:      hub,
		beepPath: *beepPath,
		speak:    *speak,
	}

	log.Info("Boot up - successful")

	if err := ipc.StartServer(func(msg ipc.ControlMessage) {
		d.mu.Lock()
		defer d.mu.Unlock()

		switch msg.Cmd {
		case "trigger":
			d.handleTrigger()
		case "text":
			d.handleUtterance(msg.Arg)
		case "clip":
			d.handleClip(msg.Arg)
		case "say":
			d.say(msg.Arg)
		case "system":
			if err := d.session.SetSystem(msg.Arg); err != nil {
				log.Error("Failed to replace system prompt", "err", err)
			}
		case "addsystem":
			if err := d.session.AddSystem(msg.Arg); err != nil {
				log.Error("Failed to extend system prompt", "err", err)
			}
		case "clear":
			if err := d.session.Clear(); err != nil {
				log.Error("Failed to clear conversation", "err", err)
			}
		case "reset":
			if err := d.session.Reset(); err != nil {
				log.Error("Failed to reset session", "err", err)
			}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
		}
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	select {}
}

func (d *daemon) handleTrigger() {
	if err := notify.Beep(d.beepPath); err != nil {
		log.Warn("Failed to play cue", "err", err)
	}
	log.Info("Listening")

	pcm, err := d.rec.Record()
	if err != nil {
		log.Error("Failed to record", "err", err)
		return
	}
	log.Info("Recorded", "samples", len(pcm))

	d.transcribeAndHandle(pcm)
}

func (d *daemon) handleClip(path string) {
	pcm, err := audioconv.DecodeFile(path)
	if err != nil {
		log.Error("Failed to decode clip", "path", path, "err", err)
		return
	}
	d.transcribeAndHandle(pcm)
}

func (d *daemon) transcribeAndHandle(pcm []float32) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	text, err := d.whisper.Transcribe(ctx, pcm, stt.Options{Language: "auto"})
	if err != nil {
		log.Error("Failed to transcribe", "err", err)
		return
	}
	if text == "" {
		log.Info("Nothing transcribed")
		return
	}

	log.Info("Transcribed", "text", text)
	d.handleUtterance(text)
}

// handleUtterance runs one turn: the command pipeline first, ordinary
// conversation when the text is not a command. Nothing in here may
// take the daemon down.
func (d *daemon) handleUtterance(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	res := d.pipeline.Process(ctx, text)
	switch res.Outcome {
	case command.OutcomeCommand:
		d.executeCommand(text, res.Command)

	case command.OutcomeRejected:
		log.Warn("Command rejected", "reason", res.Reason, "text", text)
		d.say(res.Reason.Message())

	case command.OutcomeNotCommand:
		answer, err := d.session.Ask(ctx, text)
		if err != nil {
			log.Error("Failed chat turn", "err", err)
			return
		}
		log.Info("Reply", "text", answer)
		d.say(answer)
	}
}

func (d *daemon) executeCommand(text string, cmd command.ResolvedCommand) {
	payload, _ := json.Marshal(map[string]string{
		"device":  cmd.DeviceName,
		"command": string(cmd.Command),
	})
	log.Info("Command accepted",
		"device", cmd.DeviceID, "command", cmd.Command)

	if d.hub != nil {
		if err := d.hub.Execute(cmd); err != nil {
			log.Error("Failed to execute command", "err", err)
			d.say("The device didn't respond.")
			return
		}
	}

	if err := d.session.RecordExchange(text, string(payload)); err != nil {
		log.Warn("Failed to save history", "err", err)
	}
	d.say("Done.")
}

func (d *daemon) say(text string) {
	if !d.speak {
		return
	}
	if err := tts.Speak(text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}
