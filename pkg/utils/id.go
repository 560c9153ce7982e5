package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SessionIDLength é o tamanho dos IDs de sessão do painel
const SessionIDLength = 21

func GenerateID(length int) (string, error) {
	return gonanoid.Generate(characters, length)
}
