package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"draw-guess/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

// bindData decodes a frame's data into req and validates it with the same
// engine gin uses for HTTP bindings. Any failure is a ValidationError.
func bindData(req *request, dest any, messages bindMessages) error {
	data := bytes.TrimSpace(req.frame.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = []byte("{}")
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return game.Errorf(game.KindValidation, "Invalid %s payload: %v", req.kind, err)
	}
	if err := binding.Validator.ValidateStruct(dest); err != nil {
		return game.Errorf(game.KindValidation, "%s", resolveBindError(err, messages, "Invalid "+req.kind+" payload."))
	}
	return nil
}

func bindURI(c *gin.Context, req any) bool {
	if err := c.ShouldBindUri(req); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": game.Errorf(game.KindRoomNotFound, "Room not found.")})
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
		if len(verrs) > 0 {
			return verrs[0].Field() + " failed " + verrs[0].Tag() + " validation."
		}
	}
	if fallback != "" {
		return fallback
	}
	return "Invalid request."
}
