package handler

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/agentsynergy/agentsynergy/pkg/db"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the enum tags used in request bindings
// (agent_type, agent_status, conversation_type, conversation_status,
// message_role) to gin's validator. It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator is not go-playground/validator")
			return
		}
		enums := map[string][]string{
			"agent_type":          db.AgentTypes,
			"agent_status":        db.AgentStatuses,
			"conversation_type":   db.ConversationTypes,
			"conversation_status": db.ConversationStatuses,
			"message_role":        {db.RoleUser, db.RoleAssistant},
		}
		for tag, values := range enums {
			if err := v.RegisterValidation(tag, oneOf(values)); err != nil {
				registerErr = errors.Wrapf(err, "register %s validator", tag)
				return
			}
		}
	})
	return registerErr
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

// queryInt reads an integer query parameter within [min, max], using def
// when it is absent.
func queryInt(c *gin.Context, name string, def, min, max int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, errors.Errorf("%s must be an integer between %d and %d", name, min, max)
	}
	return n, nil
}
