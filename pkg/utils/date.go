package utils

import "time"

// StartOfDay trunca t para a meia-noite no fuso de t
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// TrailingWindow retorna o início e o fim (inclusivos) de uma janela de days dias terminando em now.
// days menor que zero é tratado como zero.
func TrailingWindow(now time.Time, days int) (time.Time, time.Time) {
	if days < 0 {
		days = 0
	}

	end := StartOfDay(now)
	return end.AddDate(0, 0, -days), end
}
