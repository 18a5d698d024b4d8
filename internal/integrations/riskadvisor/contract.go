package riskadvisor

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Metrics интерфейс учета вызовов советника; реализация должна переживать
// nil-получателя, клиент не проверяет включены ли метрики
type Metrics interface {
	IncAdvisorRequest(result string)
}
