package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"podscribe/pkg/acquire"
	"podscribe/pkg/classify"
	"podscribe/pkg/config"
	"podscribe/pkg/db"
	"podscribe/pkg/domain"
	"podscribe/pkg/feed"
	"podscribe/pkg/httpclient"
	"podscribe/pkg/pipeline"
	"podscribe/pkg/replication"
	"podscribe/pkg/store"
	"podscribe/pkg/transcribe"
)

func main() {
	_ = godotenv.Load()

	var (
		videoURL   = flag.String("youtube", "", "Video-hosting URL to download and transcribe")
		uploadPath = flag.String("upload", "", "Local media file (mp4/mp3/m4a) to stage and transcribe")
		podcastURL = flag.String("podcast", "", "Podcast feed or direct audio URL")
		episodeNum = flag.Int("episode", 0, "Episode number (1-based) to transcribe when -podcast resolves to a feed")
		replicate  = flag.Bool("replicate", false, "Replicate the Mongo transcript index to Postgres and exit")
	)
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	var index *db.Client
	if cfg.Mongo.URI != "" {
		index = db.NewClient(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err := index.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to transcript index: %v", err)
		}
		defer index.Close(ctx)
	}

	if *replicate {
		runReplication(ctx, cfg, index)
		return
	}

	if cfg.Engine.APIKey == "" {
		log.Fatalf("ASSEMBLYAI_API_KEY is required to transcribe")
	}

	p := buildPipeline(cfg, index)

	var (
		artifact *domain.TranscriptArtifact
		err      error
	)

	switch {
	case *videoURL != "":
		artifact, err = p.TranscribeVideoURL(ctx, *videoURL)

	case *uploadPath != "":
		f, openErr := os.Open(*uploadPath)
		if openErr != nil {
			log.Fatalf("Failed to open upload: %v", openErr)
		}
		defer f.Close()
		artifact, err = p.TranscribeUpload(ctx, filepath.Base(*uploadPath), f)

	case *podcastURL != "":
		artifact, err = runPodcast(ctx, p, *podcastURL, *episodeNum)
		if artifact == nil && err == nil {
			return // episode list was printed; nothing to transcribe yet
		}

	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("Pipeline failed (%s): %v", domain.KindOf(err), err)
	}

	log.Printf("Transcript ready: %s (%s, %s)", artifact.BaseName, artifact.TextLocation, artifact.JSONLocation)
}

// buildPipeline wires the production collaborators.
func buildPipeline(cfg config.Config, index *db.Client) *pipeline.Pipeline {
	artifacts := store.NewDiskStore(cfg.DataDir)
	runner := acquire.ExecRunner{}
	client := httpclient.New(httpclient.BrowserClient)
	engine := transcribe.NewAssemblyAIEngine(cfg.Engine.APIKey)

	pipelineCfg := pipeline.Config{
		Classifier:  classify.New(client),
		Feeds:       feed.NewExtractor(),
		Fetcher:     acquire.NewFetcher(cfg.Tools.YTDLPBin, runner, artifacts),
		Stager:      acquire.NewStager(artifacts, acquire.NewTranscoder(cfg.Tools.FFmpegBin, runner)),
		Transcriber: transcribe.NewOrchestrator(engine, artifacts),
		OnState: func(state domain.ProcessingState, detail string) {
			if detail != "" {
				log.Printf("state: %s (%s)", state, detail)
			} else {
				log.Printf("state: %s", state)
			}
		},
	}
	if index != nil {
		pipelineCfg.Index = index
	}

	p, err := pipeline.New(pipelineCfg)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	return p
}

// runPodcast resolves a podcast URL and either prints the episode list (when
// no episode number was given) or transcribes the selection.
func runPodcast(ctx context.Context, p *pipeline.Pipeline, rawURL string, episodeNum int) (*domain.TranscriptArtifact, error) {
	resolution, err := p.ResolvePodcastURL(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if resolution.Source != nil {
		return p.TranscribeRemote(ctx, *resolution.Source)
	}

	if episodeNum < 1 || episodeNum > len(resolution.Episodes) {
		fmt.Printf("Found %d episodes. Re-run with -episode N to transcribe one:\n\n", len(resolution.Episodes))
		for i, episode := range resolution.Episodes {
			fmt.Printf("%3d. %s", i+1, episode.Title)
			if episode.Duration != "" {
				fmt.Printf(" (%s)", episode.Duration)
			}
			if episode.PublishedAt != "" {
				fmt.Printf(" — %s", episode.PublishedAt)
			}
			fmt.Println()
		}
		return nil, nil
	}

	return p.TranscribeEpisode(ctx, resolution.Episodes[episodeNum-1])
}

// runReplication copies the Mongo transcript index into Postgres (direct DSN
// preferred, Supabase as the hosted alternative).
func runReplication(ctx context.Context, cfg config.Config, index *db.Client) {
	if index == nil {
		log.Fatalf("MONGO_URI is required to replicate")
	}

	var provider db.DBProvider
	switch {
	case cfg.Postgres.DSN != "":
		pg := db.NewPostgresClient(db.PostgresConfig{DSN: cfg.Postgres.DSN})
		if err := pg.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pg.Close()
		provider = pg

	case cfg.Supabase.URL != "":
		sb := db.NewSupabaseClient(db.SupabaseConfig{
			SupabaseURL: cfg.Supabase.URL,
			SupabaseKey: cfg.Supabase.Key,
			Password:    cfg.Supabase.Password,
		})
		if err := sb.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to Supabase: %v", err)
		}
		defer sb.Close()
		provider = sb

	default:
		log.Fatalf("POSTGRES_DSN or SUPABASE_URL is required to replicate")
	}

	replicator, err := replication.NewReplicator(replication.Config{Mongo: index, Postgres: provider})
	if err != nil {
		log.Fatalf("Failed to build replicator: %v", err)
	}
	if err := replicator.ReplicateTranscripts(ctx); err != nil {
		log.Fatalf("Replication failed: %v", err)
	}
}
