package sweep_expired

// Request параметры запуска уборки истёкших бронирований
type Request struct {
	// Возраст неоплаченного pending-бронирования в часах, после которого оно истекает
	// 0 = использовать значение по умолчанию
	ExpirationHours int

	// DryRun = true: отчёт без изменений в БД и без внешних вызовов
	DryRun bool

	// Notify = true: уведомлять пользователей об истёкших бронированиях
	// Снятие холда платежа выполняется независимо от флага
	Notify bool
}

// Report итог одного прохода уборки
type Report struct {
	CancelledCount      int      `json:"cancelledCount"`
	FailedCount         int      `json:"failedCount"`
	TotalAmountReleased float64  `json:"totalAmountReleased"`
	CancelledRefs       []string `json:"cancelledRefs"`
	DryRun              bool     `json:"dryRun"`
}
