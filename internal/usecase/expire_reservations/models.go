package expire_reservations

// Response итог прогона: Declined учитывает только строки, которые
// фактически изменило условное обновление, Skipped - строки, перехваченные
// параллельным решением или другим прогоном
type Response struct {
	Declined int
	Skipped  int
	Errors   []string
}
