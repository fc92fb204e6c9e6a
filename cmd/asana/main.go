package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ayusman/asana/internal/app"
	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/pose"
	"github.com/ayusman/asana/internal/server"
	"github.com/ayusman/asana/internal/store"
)

func main() {
	fmt.Println("Asana - Yoga Pose Evaluation")

	trainPose := flag.String("train", "", "train a golden standard for the given pose from -video, then exit")
	evalPose := flag.String("evaluate", "", "evaluate -video against a stored standard for the given pose, then exit")
	videoPath := flag.String("video", "", "video file for -train/-evaluate")
	standardID := flag.String("standard", "", "standard id for -evaluate (default: latest for the pose)")
	flag.Parse()

	// Load .env if present; real environment takes precedence
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	st, err := store.New(databasePath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	registry, err := pose.Builtin()
	if err != nil {
		log.Fatalf("Failed to load pose definitions: %v", err)
	}

	hub := server.NewProgressHub()

	a := app.New(app.Config{
		Store:    st,
		Registry: registry,
		Detector: newDetector(),
		Stride:   envInt("ASANA_STRIDE", 0),
		Progress: hub.Publish,
	})

	// One-shot video modes
	if *trainPose != "" {
		if *videoPath == "" {
			log.Fatal("-train requires -video")
		}
		record, golden, err := a.TrainVideo(*trainPose, *videoPath)
		if err != nil {
			log.Fatalf("Training failed: %v", err)
		}
		fmt.Printf("Golden standard %s created for %s (%d frames)\n", record.ID, golden.PoseName, golden.TotalFrames)
		return
	}

	if *evalPose != "" {
		if *videoPath == "" {
			log.Fatal("-evaluate requires -video")
		}
		result, record, err := a.EvaluateVideo(*evalPose, *standardID, *videoPath)
		if err != nil {
			log.Fatalf("Evaluation failed: %v", err)
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
		fmt.Printf("Evaluation %s stored: score %d (%s)\n", record.ID, result.OverallScore, result.Grade)
		return
	}

	// Server mode
	srv := server.New(server.Config{
		StaticDir: os.Getenv("ASANA_STATIC_DIR"),
		Store:     st,
		App:       a,
		Registry:  registry,
		Progress:  hub,
	})

	addr := os.Getenv("ASANA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	fmt.Printf("Starting server on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// newDetector prefers the MediaPipe subprocess detector and falls back to
// the mock when it is not available.
func newDetector() detector.Detector {
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		log.Println("Using MediaPipe pose detection")
		return mp
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
}

// databasePath resolves the sqlite path from ASANA_DB or ~/.asana/asana.db.
func databasePath() string {
	if path := os.Getenv("ASANA_DB"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".asana")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	return filepath.Join(dbDir, "asana.db")
}

// envInt reads an integer environment variable, returning fallback when
// unset or malformed.
func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, value, err)
		return fallback
	}
	return n
}
