package server

import (
	"sync"

	"draw-guess/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	minNameLength = 3
	maxNameLength = 10
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("roomname", func(fl validator.FieldLevel) bool {
			return isName(fl.Field().String())
		})
		_ = engine.RegisterValidation("displayname", func(fl validator.FieldLevel) bool {
			return isName(fl.Field().String())
		})
	})
}

// isName accepts 3 to 10 ASCII letters or digits.
func isName(name string) bool {
	if len(name) < minNameLength || len(name) > maxNameLength {
		return false
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

type listSessionsRequest struct {
	PageSize  *int `json:"pageSize" form:"pageSize" binding:"required"`
	PageIndex *int `json:"pageIndex" form:"pageIndex" binding:"required"`
}

type sessionNameRequest struct {
	Name string `json:"name" uri:"name" binding:"required,roomname"`
}

type createSessionRequest struct {
	Name     string        `json:"name" binding:"required,roomname"`
	Settings game.Settings `json:"settings"`
}

type joinSessionRequest struct {
	DisplayName string `json:"displayName" binding:"required,displayname"`
	Name        string `json:"name" binding:"required,roomname"`
}

type emptyRequest struct{}

type kickMemberRequest struct {
	TargetName string `json:"targetName" binding:"required,displayname"`
}

type changeOwnerRequest struct {
	NewOwnerName string `json:"newOwnerName" binding:"required,displayname"`
}

type updateSettingsRequest struct {
	Settings game.Settings `json:"settings" binding:"required"`
}

type guessWordRequest struct {
	Word string `json:"word" binding:"required,max=20"`
}

type toolRequest struct {
	Color  string  `json:"color" binding:"required"`
	Weight float64 `json:"weight" binding:"gt=0,lte=100"`
}

type startShapeRequest struct {
	Coords []game.Coord `json:"coords" binding:"required,min=1"`
	Tool   toolRequest  `json:"tool"`
}

type pushCoordsRequest struct {
	Coords []game.Coord `json:"coords" binding:"required,min=1"`
}

var nameMessages = bindMessages{
	"Name": {
		"required": "Room name is required.",
		"roomname": "Room name must be 3 to 10 letters or digits.",
	},
	"DisplayName": {
		"required":    "Display name is required.",
		"displayname": "Display name must be 3 to 10 letters or digits.",
	},
	"TargetName": {
		"required":    "Target name is required.",
		"displayname": "Target name must be 3 to 10 letters or digits.",
	},
	"NewOwnerName": {
		"required":    "New owner name is required.",
		"displayname": "New owner name must be 3 to 10 letters or digits.",
	},
}

var listMessages = bindMessages{
	"PageSize":  {"required": "pageSize must be an integer."},
	"PageIndex": {"required": "pageIndex must be an integer."},
}

var settingsMessages = bindMessages{
	"Settings": {"required": "Settings must be an object."},
}

var guessMessages = bindMessages{
	"Word": {
		"required": "Word is required.",
		"max":      "Word must be 20 characters or fewer.",
	},
}

var drawingMessages = bindMessages{
	"Coords": {
		"required": "At least one coordinate is required.",
		"min":      "At least one coordinate is required.",
	},
	"Color": {"required": "Tool color is required."},
	"Weight": {
		"gt":  "Tool weight must be positive.",
		"lte": "Tool weight must be 100 or less.",
	},
}

// resolveTool maps a tool request onto a palette color.
func resolveTool(req toolRequest) (game.Tool, error) {
	color, err := game.LookupColor(req.Color)
	if err != nil {
		return game.Tool{}, err
	}
	return game.Tool{Color: color, Weight: req.Weight}, nil
}

func (s *Server) checkCoordPack(coords []game.Coord) error {
	if limit := s.cfg.CoordPackMax; limit > 0 && len(coords) > limit {
		return game.Errorf(game.KindValidation, "At most %d coordinates may be sent at once.", limit)
	}
	return nil
}
