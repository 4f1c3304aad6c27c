package engine

// Metrics são callbacks opcionais de instrumentação, ligadas a counters
// Prometheus no main de cada serviço (nil = sem métrica).
type Metrics struct {
	OnEvaluated func()             // avaliação de uma aposta concluída
	OnResolved  func()             // outcome commitado com sucesso
	OnWashed    func(reason string)
	OnBaseline  func()             // baseline capturado
	OnCoalesced func()             // update colapsado dentro de um passe
	OnError     func(stage string) // erro por estágio
}

func (m Metrics) evaluated() {
	if m.OnEvaluated != nil {
		m.OnEvaluated()
	}
}

func (m Metrics) resolved() {
	if m.OnResolved != nil {
		m.OnResolved()
	}
}

func (m Metrics) washed(reason string) {
	if m.OnWashed != nil {
		m.OnWashed(reason)
	}
}

func (m Metrics) baseline() {
	if m.OnBaseline != nil {
		m.OnBaseline()
	}
}

func (m Metrics) coalesced() {
	if m.OnCoalesced != nil {
		m.OnCoalesced()
	}
}

func (m Metrics) error(stage string) {
	if m.OnError != nil {
		m.OnError(stage)
	}
}
