package service

const (
	MaxPropertyIDLength = 128
	MaxHoldRangeYears   = 30 // máximo rango de periodos a evaluar
	MaxHoldAlternatives = 3  // alternativas mencionadas en la razón

	// Prefijos de las claves de caché
	cacheKeyCalculate   = "calc"
	cacheKeySensitivity = "sens"
)
