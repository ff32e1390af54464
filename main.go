package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/krehermann/spellvm/api"
	"github.com/krehermann/spellvm/config"
	"github.com/krehermann/spellvm/spell"
	"github.com/krehermann/spellvm/vm"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to spellvm.toml")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("%s", err)
		}
	}

	l, err := cfg.Logger()
	if err != nil {
		log.Fatalf("%s", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	opts := append(cfg.VMOpts(),
		vm.LoggerOpt(l),
		vm.SoundOpt(vm.SoundPlayerFunc(func(id int32) {
			l.Info("playing sound", zap.Int32("sound", id))
		})),
	)
	machine := vm.NewVM(opts...)

	store := spell.NewMemStore[string, *spell.Spell]()
	defer store.Close()

	logHealth(l, machine)
	for _, s := range spell.Demo() {
		cast(l, machine, s)
		store.Put(s.Name, s)
	}

	if cfg.Spellbook != "" {
		book, err := spell.LoadBook(cfg.Spellbook)
		if err != nil {
			l.Fatal("load spellbook", zap.Error(err))
		}
		for _, s := range book.Spells {
			cast(l, machine, s)
			store.Put(s.Name, s)
		}
	}

	if cfg.API.Listen == "" {
		return
	}

	srv, err := api.NewServer(
		api.ServerConfig{
			ListenerAddr: cfg.API.Listen,
			Logger:       l.Named("api-server"),
		},
		machine,
		store,
	)
	if err != nil {
		l.Fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		l.Info("received done")
		srv.Close()
	}()

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Error("api server", zap.Error(err))
	}
}

// cast runs one spell and reports the outcome. A failed spell is logged and
// the next one still runs against the same wizards.
func cast(l *zap.Logger, machine *vm.VM, s *spell.Spell) {
	l.Info("casting spell",
		zap.String("name", s.Name),
		zap.String("description", s.Description),
		zap.String("hash", s.Hash().Prefix()),
	)
	l.Debug("\n" + vm.DisassembleWithName(s.Code, s.Name))

	if err := machine.Interpret(s.Code); err != nil {
		l.Error("spell failed",
			zap.String("name", s.Name),
			zap.Error(err))
	}
	if stack := machine.Stack(); len(stack) > 0 {
		l.Info("result on stack",
			zap.String("name", s.Name),
			zap.Int32("top", stack[len(stack)-1]))
	}
	logHealth(l, machine)
}

func logHealth(l *zap.Logger, machine *vm.VM) {
	for i, h := range machine.Healths() {
		l.Info("wizard health",
			zap.Int("wizard", i),
			zap.Int32("health", h))
	}
}
