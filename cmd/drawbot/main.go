package main

import (
	"context"
	"flag"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"draw-guess/internal/client"
	"draw-guess/internal/game"
	"draw-guess/internal/words"

	"github.com/google/uuid"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "coordinator websocket url")
	room := flag.String("room", "lobby", "room to join")
	name := flag.String("name", "", "display name; random when empty")
	create := flag.Bool("create", false, "create the room before joining")
	start := flag.Bool("start", false, "start the game after joining")
	guessEvery := flag.Duration("guess-every", 3*time.Second, "pause between guesses")
	flag.Parse()

	if *name == "" {
		*name = "bot" + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx, *url)
	if err != nil {
		log.Fatalf("connect failed: %v", err)
	}
	defer conn.Close()

	if *create {
		if err := conn.CreateSession(*room, nil); err != nil && !game.IsKind(err, game.KindRoomAlreadyExists) {
			log.Fatalf("create room failed room=%s error=%v", *room, err)
		}
	}
	snap, err := conn.JoinSession(*room, *name)
	if err != nil {
		log.Fatalf("join failed room=%s name=%s error=%v", *room, *name, err)
	}
	var color game.Color
	for _, member := range snap.Members {
		if member.Name == *name {
			color, _ = game.MainColors.ColorByHex(member.Color)
		}
	}
	log.Printf("joined room=%s name=%s owner=%s", *room, *name, snap.Owner)

	machine := client.NewMachine(*name, color, conn, client.DefaultCoordPack)
	if snap.HasGameStarted {
		machine.HandleTurnChange(snap.CurrentlyDrawingUser)
	}
	if *start {
		if err := conn.StartGame(); err != nil {
			log.Printf("start game failed: %v", err)
		}
	}

	vocabulary := words.Default()
	ticker := time.NewTicker(*guessEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := conn.LeaveSession(); err != nil {
				log.Printf("leave failed: %v", err)
			}
			return
		case n, ok := <-conn.Notifications():
			if !ok {
				log.Println("connection closed")
				return
			}
			if err := machine.Apply(n); err != nil {
				log.Printf("notification failed type=%s error=%v", n.Type, err)
				continue
			}
			switch n.Type {
			case "word-to-draw":
				go scribble(machine)
			case "kicked":
				log.Printf("kicked from room=%s", *room)
				return
			}
		case <-ticker.C:
			if machine.State() != client.StateGuessing || !machine.Started() {
				continue
			}
			word := vocabulary.RandomWord()
			if err := machine.SendGuess(word); err != nil && !game.IsKind(err, game.KindWrongState) {
				log.Printf("guess failed word=%s error=%v", word, err)
			}
		}
	}
}

// scribble draws a spiral with a random tool.
func scribble(machine *client.Machine) {
	tools := []client.ToolKind{client.ToolPencil, client.ToolHighlighter, client.ToolEraser}
	if err := machine.SetTool(tools[rand.IntN(len(tools))]); err != nil {
		log.Printf("set tool failed: %v", err)
	}
	cx, cy := 200+rand.Float64()*200, 150+rand.Float64()*150
	if err := machine.PenDown(game.Coord{X: cx, Y: cy}); err != nil {
		return
	}
	for i := 1; i <= 60; i++ {
		angle := float64(i) * 0.3
		radius := float64(i) * 2
		point := game.Coord{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
		if err := machine.PenMove(point); err != nil {
			return
		}
		time.Sleep(30 * time.Millisecond)
	}
	if err := machine.PenUp(); err != nil {
		log.Printf("pen up failed: %v", err)
	}
}
