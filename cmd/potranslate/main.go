package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/snapcore/go-pofile"
	"github.com/snapcore/go-pofile/internal/batch"
	"github.com/snapcore/go-pofile/internal/extract"
	"github.com/snapcore/go-pofile/internal/langs"
	"github.com/snapcore/go-pofile/internal/session"
)

var Stdout io.Writer = os.Stdout

type options struct {
	Verbose bool `short:"v" long:"verbose" description:"show debug messages"`

	Extract   extractCommand   `command:"extract" description:"write a POT template of the messages in Go source files"`
	Parse     parseCommand     `command:"parse" description:"print the entries of a POT or PO file"`
	Export    exportCommand    `command:"export" description:"write a translated PO file for each POT or PO file"`
	Search    searchCommand    `command:"search" description:"list the entries matching a search term"`
	Stats     statsCommand     `command:"stats" description:"show how much of a catalog is translated"`
	Languages languagesCommand `command:"languages" description:"list the common target languages"`
}

var opts options

func setupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// openSession loads filename and applies the translations file, if any.
func openSession(filename, translationsFile, language string) (session.Session, error) {
	sess, err := session.Load(filename, language)
	if err != nil {
		return session.Session{}, err
	}
	if translationsFile == "" {
		return sess, nil
	}
	t, err := session.ReadTranslationsFile(translationsFile)
	if err != nil {
		return session.Session{}, fmt.Errorf("cannot read translations %s: %w", translationsFile, err)
	}
	n := sess.Merge(t)
	log.Debug().Str("file", filename).Int("applied", n).Int("available", len(t)).Msg("merged translations")
	return sess, nil
}

type extractCommand struct {
	FilesFrom   string   `short:"f" long:"files-from" value-name:"FILE" description:"get list of input files from FILE"`
	Directories []string `short:"D" long:"directory" value-name:"DIRECTORY" description:"add DIRECTORY to list for input files search"`
	Output      string   `short:"o" long:"output" value-name:"FILE" description:"output to specified file"`
	CommentTags []string `short:"c" long:"add-comments" optional:"true" optional-value:"" value-name:"TAG" description:"place comment blocks starting with TAG and preceding keyword lines in output file"`
	Keywords    []string `short:"k" long:"keyword" optional:"true" optional-value:"" value-name:"WORD" description:"look for WORD as an additional keyword, a bare -k disables the default keywords"`
	NoLocation  bool     `long:"no-location" description:"do not write '#: filename:line' lines"`
	SortOutput  bool     `short:"s" long:"sort-output" description:"generate sorted output"`
	Header      string   `long:"header" value-name:"TEXT" description:"comment placed at the top of the template"`

	Positional struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes"`
}

func (cmd *extractCommand) Execute(args []string) error {
	setupLogging()
	files := cmd.Positional.Files
	if cmd.FilesFrom != "" {
		content, err := os.ReadFile(cmd.FilesFrom)
		if err != nil {
			return fmt.Errorf("cannot read file %v: %v", cmd.FilesFrom, err)
		}
		files = strings.Fields(string(content))
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}

	extractor := extract.Extractor{
		Directories: cmd.Directories,
		CommentTags: cmd.CommentTags,
		SortOutput:  cmd.SortOutput,
		NoLocation:  cmd.NoLocation,
	}
	log.Debug().Strs("keywords", cmd.Keywords).Msg("extracting")
	addDefaultKeywords := true
	for _, spec := range cmd.Keywords {
		if spec == "" {
			addDefaultKeywords = false
			continue
		}
		kw, err := extract.ParseKeyword(spec)
		if err != nil {
			return fmt.Errorf("cannot parse keyword %s: %s", spec, err)
		}
		extractor.Keywords = append(extractor.Keywords, kw)
	}
	if addDefaultKeywords {
		extractor.AddDefaultKeywords()
	}

	for _, filename := range files {
		if err := extractor.ParseFile(filename); err != nil {
			return fmt.Errorf("cannot parse file %s: %s", filename, err)
		}
	}
	log.Debug().Int("files", len(files)).Int("messages", extractor.Len()).Msg("extracted messages")

	out := Stdout
	if cmd.Output != "" {
		f, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %s", cmd.Output, err)
		}
		defer f.Close()
		out = f
	}
	if err := pofile.WriteTemplate(out, extractor.Catalog(cmd.Header)); err != nil {
		return fmt.Errorf("failed to write po template: %s", err)
	}
	return nil
}

type parseCommand struct {
	JSON   bool `long:"json" description:"print JSON instead of YAML"`
	Strict bool `long:"strict" description:"fail on lines that are not valid catalog syntax"`

	Positional struct {
		File string `positional-arg-name:"FILE"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *parseCommand) Execute(args []string) error {
	setupLogging()
	filename := cmd.Positional.File
	if err := session.CheckFilename(filename); err != nil {
		return err
	}
	content, err := pofile.ReadFile(filename)
	if err != nil {
		return err
	}

	var cat *pofile.Catalog
	if cmd.Strict {
		if cat, err = pofile.ParseStrict(content); err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}
	} else {
		cat = pofile.Parse(content)
	}
	log.Debug().Str("file", filename).Int("entries", len(cat.Entries)).Msg("parsed catalog")

	if cmd.JSON {
		enc := json.NewEncoder(Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cat)
	}
	enc := yaml.NewEncoder(Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cat); err != nil {
		return err
	}
	return enc.Close()
}

type exportCommand struct {
	Language     string `short:"l" long:"language" env:"POTRANSLATE_LANGUAGE" value-name:"LANG" description:"target language code, guessed from the locale settings if unset"`
	Translations string `short:"t" long:"translations" value-name:"FILE" description:"YAML or JSON file mapping lookup keys to translations"`
	OutputDir    string `short:"o" long:"output-dir" env:"POTRANSLATE_OUTPUT" default:"." value-name:"DIR" description:"directory to write the PO files to"`
	Jobs         int    `short:"j" long:"jobs" env:"POTRANSLATE_JOBS" default:"4" value-name:"N" description:"number of files converted in parallel"`

	Positional struct {
		Files []string `positional-arg-name:"FILE"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *exportCommand) Execute(args []string) error {
	setupLogging()
	language := cmd.Language
	if language == "" {
		language = langs.Default()
		log.Debug().Str("language", language).Msg("using language from locale settings")
	}
	if err := os.MkdirAll(cmd.OutputDir, 0755); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool := batch.NewPool(cmd.Jobs, func(ctx context.Context, filename string) (string, error) {
		sess, err := openSession(filename, cmd.Translations, language)
		if err != nil {
			return "", err
		}
		name, content := sess.Export()
		out := filepath.Join(cmd.OutputDir, name)
		if err := os.WriteFile(out, []byte(content), 0644); err != nil {
			return "", err
		}
		progress := sess.Progress()
		log.Info().Str("file", out).Int("translated", progress.Translated).Int("total", progress.Total).Msg("exported")
		return out, nil
	})

	failed := 0
	for _, task := range pool.Execute(ctx, cmd.Positional.Files) {
		if task.Err != nil {
			failed++
			continue
		}
		fmt.Fprintln(Stdout, task.Result)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be exported", failed, len(cmd.Positional.Files))
	}
	return nil
}

type searchCommand struct {
	Translations string `short:"t" long:"translations" value-name:"FILE" description:"YAML or JSON file mapping lookup keys to translations"`

	Positional struct {
		File string `positional-arg-name:"FILE"`
		Term string `positional-arg-name:"TERM"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *searchCommand) Execute(args []string) error {
	setupLogging()
	sess, err := openSession(cmd.Positional.File, cmd.Translations, "")
	if err != nil {
		return err
	}
	for _, e := range sess.Search(cmd.Positional.Term) {
		msgid := fmt.Sprintf("%q", e.Msgid)
		if e.MsgContext != "" {
			msgid = fmt.Sprintf("[%s] %s", e.MsgContext, msgid)
		}
		fmt.Fprintf(Stdout, "%s => %q\n", msgid, sess.Translation(e.Key()))
	}
	return nil
}

type statsCommand struct {
	Translations string `short:"t" long:"translations" value-name:"FILE" description:"YAML or JSON file mapping lookup keys to translations"`

	Positional struct {
		File string `positional-arg-name:"FILE"`
	} `positional-args:"yes" required:"yes"`
}

func (cmd *statsCommand) Execute(args []string) error {
	setupLogging()
	sess, err := openSession(cmd.Positional.File, cmd.Translations, "")
	if err != nil {
		return err
	}
	progress := sess.Progress()
	percent := 0
	if progress.Total > 0 {
		percent = progress.Translated * 100 / progress.Total
	}
	fmt.Fprintf(Stdout, "%s: %d of %d entries translated (%d%%)\n", filepath.Base(cmd.Positional.File), progress.Translated, progress.Total, percent)
	return nil
}

type languagesCommand struct{}

func (cmd *languagesCommand) Execute(args []string) error {
	setupLogging()
	w := tabwriter.NewWriter(Stdout, 0, 4, 2, ' ', 0)
	for _, lang := range langs.Common() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", lang.Code, lang.Name, lang.Native)
	}
	return w.Flush()
}

func run(args []string) error {
	opts = options{}
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	_, err := parser.ParseArgs(args)
	return err
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	if err := run(os.Args[1:]); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(Stdout, flagsErr.Message)
			os.Exit(0)
		}
		log.Fatal().Err(err).Msg("potranslate failed")
	}
}
