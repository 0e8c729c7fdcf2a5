package handlers

import (
	"net/http"

	"food-marketplace-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetStateMachineInfo documents the order lifecycle for API consumers
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	out := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, gin.H{
			"from":  t.From,
			"to":    t.To,
			"actor": t.Actor,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"initial_state":   "pending",
		"terminal_states": []string{"delivered", "cancelled"},
		"transitions":     out,
	})
}
