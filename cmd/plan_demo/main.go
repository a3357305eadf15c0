// README: One-shot CLI that runs the planning pipeline for a destination and prints the itinerary.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"voyage/internal/ai"
	"voyage/internal/maps"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/session"
	"voyage/internal/service"
	"voyage/internal/weather"
)

func main() {
	_ = godotenv.Load()

	destination := pflag.StringP("destination", "d", "Kyoto", "city or place to plan for")
	duration := pflag.String("duration", string(itinerary.DurationOneDay), "trip length: 3h, 6h, 1d, 2d, 3-5d, 1w")
	interests := pflag.StringSlice("interest", nil, "interest tag, repeatable")
	snacks := pflag.Bool("snacks", false, "include a snack break")
	verbose := pflag.BoolP("verbose", "v", false, "log pipeline stages")
	pflag.Parse()

	zlog := zap.NewNop()
	if *verbose {
		zlog = zap.Must(zap.NewDevelopment())
	}

	req, err := itinerary.NewTripRequest(*destination, itinerary.Duration(*duration), *interests, *snacks)
	if err != nil {
		log.Fatal(err)
	}

	var resolver maps.Resolver = maps.Unconfigured{}
	if key := os.Getenv("OPENTRIPMAP_API_KEY"); key != "" {
		resolver = maps.NewOpenTripMapResolver(maps.OpenTripMapConfig{APIKey: key}, zlog)
	}

	var generator ai.Generator = ai.Disabled{}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		generator = ai.NewChatClient(ai.ChatConfig{APIKey: key}, zlog)
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		g, err := ai.NewGeminiGenerator(context.Background(), key, "", 0, 0, zlog)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini: %v", err)
		}
		defer g.Close()
		generator = g
	}

	planner := service.NewTripPlanner(resolver, weather.NewOpenMeteo("", zlog), generator, nil, zlog, service.Options{})
	sc, err := session.NewService(session.NewMemoryStore(), zlog).Scope("plan-demo")
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	res, err := planner.Plan(ctx, sc, req)
	if err != nil {
		log.Fatalf("plan failed: %v", err)
	}

	title := fmt.Sprintf("%s, %s", req.Destination(), req.Duration().Label())
	fmt.Print(itinerary.PlainText(title, res.Itinerary))
	fmt.Printf("\n(stage: %s)\n", res.Stage)
}
