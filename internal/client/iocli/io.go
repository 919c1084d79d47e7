package iocli

// IO абстрагирует терминальный ввод-вывод команд клиента,
// чтобы команды можно было тестировать со скриптованным вводом
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
}
