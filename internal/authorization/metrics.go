package authorization

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authorizationDenials = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pharmgate_authorization_denials_total",
	Help: "Authorization decisions that ended in a denial.",
}, []string{"object", "action"})
