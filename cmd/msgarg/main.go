package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/danderson/msgarg"
	"github.com/danderson/msgarg/internal/gotype"
	"github.com/kr/pretty"
)

var globalArgs struct {
	Verbose bool `flag:"verbose,Log diagnostics to stderr"`
}

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "msgarg",
})

func main() {
	root := &command.C{
		Name:     "msgarg",
		Usage:    "command [flags]",
		Help:     "Inspect signatures and typed message arguments.",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Init: func(env *command.Env) error {
			if globalArgs.Verbose {
				logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*command.C{
			{
				Name:  "check",
				Usage: "check signature...",
				Help:  "Check that signatures are well formed",
				Run:   runCheck,
			},
			{
				Name:  "split",
				Usage: "split signature",
				Help:  "Split a signature into its complete types",
				Run:   command.Adapt(runSplit),
			},
			{
				Name:  "encode",
				Usage: "encode signature json...",
				Help: `Encode arguments to a wire message body, printed as hex.

Each argument is a JSON document matching one complete type of the
signature. Numbers must fit the exact type, arrays and structs are JSON
arrays, dictionaries are JSON objects, and variants are written as
["sig", value].`,
				SetFlags: command.Flags(flax.MustBind, &encodeArgs),
				Run:      runEncode,
			},
			{
				Name:     "decode",
				Usage:    "decode signature hex",
				Help:     "Decode a hex wire message body and print its values",
				SetFlags: command.Flags(flax.MustBind, &decodeArgs),
				Run:      command.Adapt(runDecode),
			},
			{
				Name:     "gotype",
				Usage:    "gotype signature",
				Help:     "Print the Go type declaration for a signature",
				SetFlags: command.Flags(flax.MustBind, &gotypeArgs),
				Run:      command.Adapt(runGotype),
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	env := root.NewEnv(nil).SetContext(ctx)
	command.RunOrFail(env, os.Args[1:])
}

func runCheck(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("check requires at least one signature")
	}
	if bad := checkSignatures(os.Stdout, env.Args); bad > 0 {
		return fmt.Errorf("%d of %d signatures are invalid", bad, len(env.Args))
	}
	return nil
}

// checkSignatures writes one verdict line per signature to w, and
// returns the number of invalid signatures.
func checkSignatures(w io.Writer, sigs []string) int {
	bad := 0
	for _, sig := range sigs {
		if err := msgarg.ValidateSignature(sig); err != nil {
			fmt.Fprintf(w, "%q: %v\n", sig, err)
			bad++
		} else {
			fmt.Fprintf(w, "%q: ok\n", sig)
		}
	}
	return bad
}

func runSplit(env *command.Env, sig string) error {
	s, err := msgarg.ParseSignature(sig)
	if err != nil {
		return err
	}
	for _, part := range s.Split() {
		fmt.Printf("%s\t%s\n", part, part.Kind())
	}
	return nil
}

var encodeArgs struct {
	BigEndian bool `flag:"big-endian,Encode in big endian byte order"`
}

func runEncode(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("encode requires a signature")
	}
	s, err := msgarg.ParseSignature(env.Args[0])
	if err != nil {
		return err
	}
	parts, docs := s.Split(), env.Args[1:]
	if len(parts) != len(docs) {
		return env.Usagef("signature %q has %d arguments, got %d", s, len(parts), len(docs))
	}

	args := make([]msgarg.Value, 0, len(parts))
	for i, part := range parts {
		v, err := parseJSON(part, docs[i])
		if err != nil {
			return fmt.Errorf("arg%d: %w", i, err)
		}
		logger.Debug("parsed argument", "arg", i, "sig", part, "value", v)
		args = append(args, v)
	}

	body, err := msgarg.AppendWire(nil, byteOrder(encodeArgs.BigEndian), args...)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	logger.Debug("encoded body", "len", len(body))
	fmt.Println(hex.EncodeToString(body))
	return nil
}

var decodeArgs struct {
	BigEndian bool `flag:"big-endian,Decode in big endian byte order"`
	Go        bool `flag:"go,Print decoded values as Go values"`
}

func runDecode(env *command.Env, sig, body string) error {
	bs, err := parseHex(body)
	if err != nil {
		return fmt.Errorf("parsing hex body: %w", err)
	}
	logger.Debug("decoding body", "sig", sig, "len", len(bs))
	vals, err := msgarg.DecodeWire(bs, byteOrder(decodeArgs.BigEndian), sig)
	if err != nil {
		var werr msgarg.WireError
		if errors.As(err, &werr) {
			logger.Debug("decode failed", "offset", werr.Offset, "path", werr.Path)
		}
		return err
	}

	out := &indenter{out: os.Stdout}
	for i, v := range vals {
		out.indent(0)
		out.f("arg%d:", i)
		out.indent(1)
		if !decodeArgs.Go {
			out.s(strings.TrimSuffix(v.Dump(), "\n"))
			continue
		}
		nat, err := v.Native()
		if err != nil {
			return fmt.Errorf("arg%d: %w", i, err)
		}
		out.f("%# v", pretty.Formatter(nat))
	}
	return nil
}

var gotypeArgs struct {
	Name    string `flag:"name,default=T,Name of the generated type"`
	Args    bool   `flag:"args,Generate an argument struct with one field per complete type"`
	Package string `flag:"package,Name by which generated code refers to the msgarg package"`
	Names   string `flag:"names,Comma-separated field names for --args"`
}

func runGotype(env *command.Env, sig string) error {
	s, err := msgarg.ParseSignature(sig)
	if err != nil {
		return err
	}
	opts := gotype.Options{Package: gotypeArgs.Package}
	if gotypeArgs.Names != "" {
		opts.ArgNames = strings.Split(gotypeArgs.Names, ",")
	}

	gen := gotype.Type
	if gotypeArgs.Args {
		gen = gotype.Args
	}
	code, err := gen(gotypeArgs.Name, s, opts)
	if err != nil {
		return err
	}
	fmt.Print(code)
	return nil
}
