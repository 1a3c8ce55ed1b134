package rag

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/DreamCats/docrag/internal/config"
	"github.com/DreamCats/docrag/internal/embedding"
	"github.com/DreamCats/docrag/internal/llm"
	"github.com/DreamCats/docrag/internal/tts"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// replExitWords end an interactive query session
var replExitWords = map[string]bool{"exit": true, "quit": true, "q": true, ":q": true}

// Run dispatches the CLI and returns the process exit code
func Run(args []string) int {
	if len(args) < 2 {
		printUsage()
		return 1
	}
	switch args[1] {
	case "index":
		return runIndex(args[2:])
	case "query":
		return runQuery(args[2:])
	case "list":
		return runList(args[2:])
	case "clear":
		return runClear(args[2:])
	case "compare":
		return runCompare(args[2:])
	case "speak":
		return runSpeak(args[2:])
	case "search":
		return runSearch(args[2:])
	case "watch":
		return runWatch(args[2:])
	case "config":
		return runConfig(args[2:])
	case "version", "-v", "--version":
		fmt.Printf("docrag %s\n", Version)
		return 0
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[1])
		printUsage()
		return 1
	}
}

func loadConfig() (*config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return nil, false
	}
	return cfg, true
}

func newEngine(cfg *config.Config) (*Engine, error) {
	embedder, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		return nil, err
	}
	return NewEngine(cfg, embedder, llm.NewClient(&cfg.LLM)), nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func setupLogging(cfg *config.Config, subcommand string) func() {
	logger, err := InitRunLogger(cfg.Store.Path, subcommand)
	if err != nil {
		// logging is best effort; the command still runs
		return func() {}
	}
	return func() { logger.Close() }
}

func runIndex(args []string) int {
	fs := flag.NewFlagSet("index", flag.ContinueOnError)
	collection := fs.String("collection", "", "target collection (default from config)")
	progress := fs.Bool("progress", DefaultProgressEnabled(), "show progress")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "index requires at least one file or directory")
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	defer setupLogging(cfg, "index")()
	name := *collection
	if name == "" {
		name = cfg.Indexer.DefaultCollection
	}

	embedder, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	reporter := NewIndexProgress(*progress, "indexing")
	result, err := IndexPaths(ctx, cfg, embedder, name, fs.Args(), reporter)
	if err != nil {
		var warn *IndexWarning
		switch {
		case errors.As(err, &warn):
			fmt.Fprintln(os.Stderr, dimStyle.Render(warn.Error()))
		case errors.Is(err, ErrNoDocuments):
			// nothing loadable is an empty run, not a failure
			fmt.Fprintln(os.Stderr, dimStyle.Render(err.Error()))
			fmt.Printf("indexed 0 chunk(s) into %q\n", name)
			return 0
		default:
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
	}
	fmt.Printf("indexed %d chunk(s) from %d file(s) into %q (total %d)\n",
		result.Chunks, result.Files, result.Collection, result.TotalCount)
	return 0
}

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	collection := fs.String("collection", "", "collection to query")
	model := fs.String("model", "", "override the generation model")
	save := fs.String("save", "", "save the answer to a file (.txt, .md or .json)")
	showSources := fs.Bool("sources", false, "print retrieved sources after the answer")
	topK := fs.Int("top", 0, "number of chunks to retrieve")
	speak := fs.Bool("speak", false, "read the answer aloud")
	voice := fs.String("voice", "", "TTS voice for --speak")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	defer setupLogging(cfg, "query")()
	applyOverrides(cfg, *model, *topK)
	name := *collection
	if name == "" {
		name = cfg.Indexer.DefaultCollection
	}

	engine, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}

	var speaker *tts.Service
	if *speak {
		if *voice != "" {
			cfg.TTS.Voice = *voice
		}
		speaker = tts.NewService(&cfg.TTS)
	}

	if fs.NArg() > 0 {
		question := strings.Join(fs.Args(), " ")
		return askOnce(engine, name, question, *save, *showSources, speaker)
	}
	return queryREPL(engine, name, *showSources, speaker)
}

func applyOverrides(cfg *config.Config, model string, topK int) {
	if model != "" {
		cfg.LLM.Model = model
	}
	if topK > 0 {
		cfg.Retrieval.TopK = topK
	}
}

func askOnce(engine *Engine, collection, question, save string, showSources bool, speaker *tts.Service) int {
	ctx, cancel := signalContext()
	defer cancel()

	answer, err := engine.Ask(ctx, collection, question, func(tok string) {
		fmt.Print(tok)
	})
	fmt.Println()
	if err != nil {
		if errors.Is(err, context.Canceled) && answer != nil {
			fmt.Fprintln(os.Stderr, dimStyle.Render("(interrupted)"))
		} else {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
	}
	if showSources && answer != nil {
		printSources(answer.Sources)
	}
	if save != "" && answer != nil {
		dest := ResolveOutputPath(engine.cfg.Store.Path, save)
		if err := SaveAnswer(answer, dest); err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
		fmt.Println(dimStyle.Render("saved to " + dest))
	}
	if answer != nil {
		speakAnswer(speaker, answer.Text)
	}
	return 0
}

// speakAnswer reads an answer aloud when a speaker is configured. TTS
// trouble is a warning, not a failure: the answer is already on screen.
func speakAnswer(speaker *tts.Service, text string) {
	if speaker == nil {
		return
	}
	ctx, cancel := signalContext()
	defer cancel()
	if err := speaker.Speak(ctx, text); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, dimStyle.Render("(tts stopped)"))
			return
		}
		fmt.Fprintln(os.Stderr, dimStyle.Render("tts unavailable: "+err.Error()))
	}
}

func queryREPL(engine *Engine, collection string, showSources bool, speaker *tts.Service) int {
	fmt.Println(dimStyle.Render(fmt.Sprintf("collection %q, model %q. Type exit to quit.",
		collection, engine.llm.Model())))

	// One persistent handler for the whole session: an interrupt at the
	// prompt redraws it, an interrupt during generation cancels the
	// in-flight request. Either way the session stays alive.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print(headerStyle.Render("> "))

		var question string
		select {
		case <-sigCh:
			fmt.Println()
			fmt.Println(dimStyle.Render("(type exit to quit)"))
			continue
		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return 0
			}
			question = strings.TrimSpace(line)
		}
		if question == "" {
			continue
		}
		if replExitWords[strings.ToLower(question)] {
			return 0
		}

		ctx, cancel := cancelOnSignal(context.Background(), sigCh)
		answer, err := engine.Ask(ctx, collection, question, func(tok string) {
			fmt.Print(tok)
		})
		cancel()
		fmt.Println()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(os.Stderr, dimStyle.Render("(interrupted)"))
				continue
			}
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			if errors.Is(err, ErrCollectionNotFound) {
				return 1
			}
			continue
		}
		if showSources {
			printSources(answer.Sources)
		}
		if answer != nil {
			speakAnswer(speaker, answer.Text)
		}
		fmt.Println()
	}
}

// cancelOnSignal derives a context that is cancelled when a value arrives
// on sig. The returned CancelFunc releases the watcher and must be called.
func cancelOnSignal(parent context.Context, sig <-chan os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	go func() {
		select {
		case <-sig:
			cancel()
		case <-done:
		}
	}()
	var once sync.Once
	return ctx, func() {
		once.Do(func() { close(done) })
		cancel()
	}
}

func printSources(sources []ScoredChunk) {
	if len(sources) == 0 {
		return
	}
	fmt.Println(headerStyle.Render("\nSources:"))
	for _, chunk := range sources {
		label := chunk.Source
		if chunk.Page > 0 {
			label = fmt.Sprintf("%s (p.%d)", label, chunk.Page)
		}
		fmt.Printf("  %s %s\n", sourceStyle.Render(label),
			dimStyle.Render(fmt.Sprintf("score %.3f", chunk.Score)))
	}
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	infos, err := ListCollections(cfg.Store.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	if len(infos) == 0 {
		fmt.Println("no collections")
		return 0
	}
	for _, info := range infos {
		updated := "-"
		if !info.Meta.Updated.IsZero() {
			updated = info.Meta.Updated.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%s\t%d chunk(s)\t%d source(s)\t%s\n",
			headerStyle.Render(info.Name), info.Meta.ChunkCount, len(info.Meta.Sources), updated)
	}
	return 0
}

func runClear(args []string) int {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "clear takes at most one collection name")
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	// no name: preview everything, then delete it all on confirmation
	if fs.NArg() == 0 {
		names, err := PreviewAll(cfg.Store.Path)
		if err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
		if len(names) == 0 {
			fmt.Println("nothing to clear")
			return 0
		}
		for _, name := range names {
			fmt.Println("  " + name)
		}
		if !*yes && !confirm(fmt.Sprintf("delete ALL %d collection(s)?", len(names))) {
			fmt.Println("aborted")
			return 0
		}
		deleted, err := ConfirmDeleteAll(ctx, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
		fmt.Printf("cleared %d collection(s)\n", deleted)
		return 0
	}

	name := fs.Arg(0)
	if !*yes && !confirm(fmt.Sprintf("delete collection %q?", name)) {
		fmt.Println("aborted")
		return 0
	}
	if err := ClearCollection(ctx, cfg, name); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	fmt.Printf("cleared %q\n", name)
	return 0
}

// confirm asks a yes/no question on stdin and defaults to no
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	scanner := bufio.NewScanner(os.Stdin)
	return scanner.Scan() && strings.EqualFold(strings.TrimSpace(scanner.Text()), "y")
}

func runCompare(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	collection := fs.String("collection", "", "collection to query")
	models := fs.String("models", "", "comma-separated models to compare")
	out := fs.String("out", "", "write results to a file (.csv or .json) instead of stdout")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if strings.TrimSpace(*models) == "" {
		fmt.Fprintln(os.Stderr, "compare requires --models")
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "compare requires a question or a question file")
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	defer setupLogging(cfg, "compare")()
	name := *collection
	if name == "" {
		name = cfg.Indexer.DefaultCollection
	}

	// a single argument naming an existing file is a list of questions
	questions := fs.Args()
	if len(questions) == 1 {
		if info, err := os.Stat(questions[0]); err == nil && info.Mode().IsRegular() {
			questions, err = ReadQuestionFile(questions[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
				return 1
			}
			if len(questions) == 0 {
				fmt.Fprintln(os.Stderr, "question file is empty")
				return 1
			}
		}
	}

	modelList := splitList(*models)
	engine, err := newEngine(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	stop := StartSpinner(*out != "" && DefaultProgressEnabled(), "comparing")
	rows, err := CompareModels(ctx, engine, name, questions, modelList)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}

	writer := os.Stdout
	dest := ""
	if *out != "" {
		dest = ResolveOutputPath(cfg.Store.Path, *out)
		if dir := filepath.Dir(dest); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
				return 1
			}
		}
		file, err := os.Create(dest)
		if err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
		defer file.Close()
		writer = file
	}
	write := WriteCompareCSV
	if strings.EqualFold(filepath.Ext(dest), ".json") {
		write = WriteCompareJSON
	}
	if err := write(writer, rows); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	if dest != "" {
		fmt.Printf("wrote %d row(s) to %s\n", len(rows), dest)
	}
	return 0
}

func runSpeak(args []string) int {
	fs := flag.NewFlagSet("speak", flag.ContinueOnError)
	voice := fs.String("voice", "", "override the TTS voice")
	save := fs.String("save", "", "write the audio as MP3 instead of playing it")
	maxChars := fs.Int("max-chars", 0, "truncate text to N characters (0 = config default)")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "speak requires text or a file path")
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	defer setupLogging(cfg, "speak")()
	if *voice != "" {
		cfg.TTS.Voice = *voice
	}
	if *maxChars > 0 {
		cfg.TTS.MaxChars = *maxChars
	}

	source := strings.Join(fs.Args(), " ")
	text, fromFile, err := resolveSpeakText(source)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	if fromFile {
		fmt.Println(dimStyle.Render(fmt.Sprintf("reading %s (%d chars)",
			filepath.Base(source), len(text))))
	}
	if strings.TrimSpace(text) == "" {
		fmt.Println("nothing to read")
		return 0
	}

	ctx, cancel := signalContext()
	defer cancel()

	speaker := tts.NewService(&cfg.TTS)
	if *save != "" {
		dest := ResolveOutputPath(cfg.Store.Path, *save)
		if err := speaker.SaveTo(ctx, text, dest); err != nil {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
		fmt.Println(dimStyle.Render("audio saved to " + dest))
		return 0
	}
	if err := speaker.Speak(ctx, text); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, dimStyle.Render("(stopped)"))
			return 0
		}
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	return 0
}

// resolveSpeakText turns the speak argument into text to read: a path to
// a loadable document yields its extracted text, anything else is spoken
// literally. The bool reports whether a file was read.
func resolveSpeakText(source string) (string, bool, error) {
	info, err := os.Stat(source)
	if err != nil || !info.Mode().IsRegular() {
		return source, false, nil
	}
	docs, err := LoadFile(source)
	if err != nil {
		return "", true, fmt.Errorf("could not read %s: %w", source, err)
	}
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, doc.Content)
	}
	return strings.Join(parts, "\n\n"), true, nil
}

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	collection := fs.String("collection", "", "collection to search")
	topK := fs.Int("top", 10, "max results")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "search requires query text")
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	name := *collection
	if name == "" {
		name = cfg.Indexer.DefaultCollection
	}
	if !CollectionExists(cfg.Store.Path, name) {
		fmt.Fprintln(os.Stderr, errStyle.Render(fmt.Sprintf("collection not found: %s", name)))
		return 1
	}

	query := strings.Join(fs.Args(), " ")
	hits, err := SearchText(textIndexDir(CollectionDir(cfg.Store.Path, name)), query, *topK)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	if len(hits) == 0 {
		fmt.Println("no results")
		return 0
	}
	for _, hit := range hits {
		label := hit.Source
		if hit.Page > 0 {
			label = fmt.Sprintf("%s (p.%d)", label, hit.Page)
		}
		snippet := strings.Join(strings.Fields(hit.Snippet), " ")
		fmt.Printf("%s\t%.2f\t%s\n", sourceStyle.Render(label), hit.Score, snippet)
	}
	return 0
}

func runWatch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	collection := fs.String("collection", "", "target collection")
	debounce := fs.Duration("debounce", 2*time.Second, "settle time after a change before indexing")
	progress := fs.Bool("progress", DefaultProgressEnabled(), "show progress")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "watch requires exactly one directory")
		return 1
	}
	cfg, ok := loadConfig()
	if !ok {
		return 1
	}
	defer setupLogging(cfg, "watch")()
	name := *collection
	if name == "" {
		name = cfg.Indexer.DefaultCollection
	}

	embedder, err := embedding.NewService(&cfg.Embedding)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	root := fs.Arg(0)
	fmt.Printf("watching %s (debounce %s)\n", root, debounce.String())
	err = WatchPath(ctx, cfg, embedder, name, root, WatchOptions{
		Debounce: *debounce,
		Progress: *progress,
		OnIndexed: func(result *IndexResult, err error) {
			if err != nil {
				var warn *IndexWarning
				switch {
				case errors.As(err, &warn):
					fmt.Fprintln(os.Stderr, dimStyle.Render(warn.Error()))
				case errors.Is(err, ErrNoDocuments):
					fmt.Fprintln(os.Stderr, dimStyle.Render(err.Error()))
					return
				default:
					fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
					return
				}
			}
			if result != nil {
				fmt.Printf("indexed %d chunk(s) into %q (total %d)\n",
					result.Chunks, result.Collection, result.TotalCount)
			}
		},
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "config requires a subcommand: init")
		return 1
	}
	switch args[0] {
	case "init":
		return runConfigInit(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown config subcommand: %s\n", args[0])
		return 1
	}
}

func runConfigInit(args []string) int {
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite existing config")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	path, err := config.DefaultPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	if *force {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
			return 1
		}
	}
	created, err := config.WriteDefaultTemplate(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render(err.Error()))
		return 1
	}
	if created {
		fmt.Printf("config created: %s\n", path)
	} else {
		fmt.Printf("config already exists: %s\n", path)
	}
	return 0
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printUsage() {
	fmt.Println(`docrag <command> [options]

Commands:
  index   [--collection <name>] [--progress] <path>...
  query   [--collection <name>] [--model <m>] [--save <file>] [--sources] [--top <k>]
          [--speak] [--voice <v>] [question]
          With no question, starts an interactive session (exit/quit/q to leave).
  list
  clear   [--yes] [collection]
          With no name, previews and deletes every collection after confirmation.
  compare --models <m1,m2,...> [--collection <name>] [--out <file.csv|file.json>]
          <question-or-file>...
  speak   [--voice <v>] [--save <file.mp3>] [--max-chars <n>] <text-or-file>
  search  [--collection <name>] [--top <k>] <text>
  watch   [--collection <name>] [--debounce 2s] [--progress] <dir>
  config  init [--force]
  version
  help`)
}
