package api

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/krehermann/spellvm/spell"
	"github.com/krehermann/spellvm/vm"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ServerConfig struct {
	ListenerAddr string
	Logger       *zap.Logger
}

// Server exposes one shared VM over http. Requests are serialized on mu
// since the VM itself has no locking.
type Server struct {
	ServerConfig

	mu      sync.Mutex
	machine *vm.VM
	spells  spell.Storager[string, *spell.Spell]

	// set when NewServer made the store itself; Close stops it
	ownStore *spell.MemStore[string, *spell.Spell]

	echo   *echo.Echo
	logger *zap.Logger
}

func NewServer(config ServerConfig, machine *vm.VM, spells spell.Storager[string, *spell.Spell]) (*Server, error) {
	if config.Logger == nil {
		config.Logger, _ = zap.NewDevelopment()
	}
	if machine == nil {
		return nil, errors.New("api server needs a vm")
	}
	s := &Server{
		ServerConfig: config,
		machine:      machine,
		spells:       spells,
		logger:       config.Logger,
	}
	if spells == nil {
		s.ownStore = spell.NewMemStore[string, *spell.Spell]()
		s.spells = s.ownStore
	}

	echoer := echo.New()
	echoer.HideBanner = true
	echoer.HidePort = true

	echoer.GET("/wizards", s.handleGetWizards)
	echoer.GET("/wizards/:id", s.handleGetWizard)
	echoer.GET("/stack", s.handleGetStack)
	echoer.GET("/spells", s.handleListSpells)
	echoer.GET("/spells/:name", s.handleGetSpell)
	echoer.POST("/spells", s.handlePutSpell)
	echoer.POST("/spells/:name/cast", s.handleCastSpell)
	echoer.POST("/cast", s.handleCast)

	s.echo = echoer
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	s.logger.Info("api server starting",
		zap.String("addr", s.ListenerAddr))
	return s.echo.Start(s.ListenerAddr)
}

func (s *Server) Close() error {
	err := s.echo.Close()
	if s.ownStore != nil {
		s.ownStore.Close()
		s.ownStore = nil
	}
	return err
}

type spellSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hash        string `json:"hash"`
}

type castResult struct {
	Spell  string  `json:"spell,omitempty"`
	Stack  []int32 `json:"stack"`
	Health []int32 `json:"health"`
	Error  string  `json:"error,omitempty"`
}

func errorJSON(ectx echo.Context, code int, err error) error {
	return ectx.JSON(code,
		map[string]any{
			"error": err.Error(),
		})
}

func (s *Server) handleGetWizards(ectx echo.Context) error {
	s.mu.Lock()
	health := s.machine.Healths()
	s.mu.Unlock()

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"health": health,
		})
}

func (s *Server) handleGetWizard(ectx echo.Context) error {
	val := ectx.Param("id")

	id, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return errorJSON(ectx, http.StatusBadRequest, err)
	}

	s.mu.Lock()
	health, err := s.machine.Health(int32(id))
	s.mu.Unlock()
	if err != nil {
		return errorJSON(ectx, http.StatusNotFound, err)
	}

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"wizard": id,
			"health": health,
		})
}

func (s *Server) handleGetStack(ectx echo.Context) error {
	s.mu.Lock()
	stack := s.machine.Stack()
	s.mu.Unlock()

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"stack": stack,
		})
}

func (s *Server) handleListSpells(ectx echo.Context) error {
	out := []spellSummary{}
	for _, name := range s.spells.Keys() {
		sp, err := s.spells.Get(name)
		if err != nil {
			// deleted since Keys
			continue
		}
		out = append(out, spellSummary{
			Name:        sp.Name,
			Description: sp.Description,
			Hash:        sp.Hash().String(),
		})
	}
	return ectx.JSON(http.StatusOK, out)
}

func (s *Server) handleGetSpell(ectx echo.Context) error {
	name := ectx.Param("name")

	sp, err := s.spells.Get(name)
	if err != nil {
		return errorJSON(ectx, http.StatusNotFound, err)
	}

	return ectx.JSON(http.StatusOK,
		map[string]any{
			"spell":       sp,
			"hash":        sp.Hash().String(),
			"disassembly": vm.DisassembleWithName(sp.Code, sp.Name),
		})
}

func (s *Server) handlePutSpell(ectx echo.Context) error {
	sp := &spell.Spell{}
	if err := ectx.Bind(sp); err != nil {
		return errorJSON(ectx, http.StatusBadRequest, err)
	}

	if err := s.spells.Put(sp.Name, sp); err != nil {
		return errorJSON(ectx, http.StatusInternalServerError, err)
	}
	s.logger.Info("spell registered",
		zap.String("name", sp.Name),
		zap.String("hash", sp.Hash().Prefix()),
		zap.Int("instructions", len(sp.Code)),
	)

	return ectx.JSON(http.StatusCreated, spellSummary{
		Name:        sp.Name,
		Description: sp.Description,
		Hash:        sp.Hash().String(),
	})
}

func (s *Server) handleCastSpell(ectx echo.Context) error {
	name := ectx.Param("name")

	sp, err := s.spells.Get(name)
	if err != nil {
		return errorJSON(ectx, http.StatusNotFound, err)
	}
	return s.cast(ectx, sp)
}

type castRequest struct {
	Code []spell.Op `json:"code"`
}

func (s *Server) handleCast(ectx echo.Context) error {
	var req castRequest
	if err := ectx.Bind(&req); err != nil {
		return errorJSON(ectx, http.StatusBadRequest, err)
	}
	program, err := spell.ProgramFromOps(req.Code)
	if err != nil {
		return errorJSON(ectx, http.StatusBadRequest, err)
	}
	return s.cast(ectx, &spell.Spell{Code: program})
}

func (s *Server) cast(ectx echo.Context, sp *spell.Spell) error {
	s.mu.Lock()
	err := s.machine.Interpret(sp.Code)
	res := castResult{
		Spell:  sp.Name,
		Stack:  s.machine.Stack(),
		Health: s.machine.Healths(),
	}
	s.mu.Unlock()

	s.logger.Info("spell cast",
		zap.String("name", sp.Name),
		zap.Int32s("stack", res.Stack),
		zap.Error(err),
	)

	code := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, vm.ErrBusy):
		code = http.StatusConflict
		res.Error = err.Error()
	default:
		code = http.StatusUnprocessableEntity
		res.Error = err.Error()
	}
	return ectx.JSON(code, res)
}
