package health

type Input struct{}

type Output struct {
	Body Response
}

type Response struct {
	Status    string `json:"status" example:"OK" doc:"OK, если хранилище отвечает"`
	Storage   string `json:"storage" example:"postgres" doc:"Диалект хранилища"`
	LatencyMS int64  `json:"latency_ms" doc:"Время ответа хранилища на ping, мс"`
}
