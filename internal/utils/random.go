package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/sysu-ecnc-dev/barber-booking/backend/internal/domain"
)

var shopPrefixes = []string{"Barbearia", "Barber Shop", "Salão", "Studio", "理发店"}
var shopNames = []string{
	"do Zé", "Navalha de Ouro", "Dom Bigode", "Corte Fino", "Vintage", "Old School",
	"São Jorge", "Tesoura Afiada", "Black Fade", "Central", "金剪刀", "老街",
}

var firstNames = []string{
	"João", "Pedro", "Lucas", "Gabriel", "Rafael", "Mateus", "Bruno", "Thiago",
	"Ana", "Mariana", "Julia", "Beatriz", "Carla", "Fernanda", "Paula", "Renata",
}
var lastNames = []string{
	"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira", "Costa", "Almeida", "Ribeiro", "Carvalho",
}

var serviceCatalog = []struct {
	name     string
	duration int32
	price    int64
}{
	{"Corte masculino", 30, 4500},
	{"Barba", 30, 3500},
	{"Corte + barba", 60, 7500},
	{"Pigmentação", 45, 5000},
	{"Sobrancelha", 15, 1500},
	{"Platinado", 120, 18000},
	{"Hidratação", 40, 4000},
	{"Corte infantil", 30, 3500},
}

const digits = "0123456789"
const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomFullName() string {
	return firstNames[mrand.Intn(len(firstNames))] + " " + lastNames[mrand.Intn(len(lastNames))]
}

func GenerateRandomPhone() string {
	phone := []byte("+55119")
	for i := 0; i < 8; i++ {
		phone = append(phone, digits[mrand.Intn(len(digits))])
	}
	return string(phone)
}

func GenerateRandomID(length int) string {
	id := make([]byte, length)
	for i := range id {
		id[i] = letters[mrand.Intn(len(letters))]
	}
	return string(id)
}

// GenerateCancelToken returns the one-time secret a client uses to cancel a booking.
func GenerateCancelToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func GenerateRandomBarbershop() *domain.Barbershop {
	name := shopPrefixes[mrand.Intn(len(shopPrefixes))] + " " + shopNames[mrand.Intn(len(shopNames))]
	slug := Slugify(name) + "-" + Slugify(GenerateRandomID(4))

	return &domain.Barbershop{
		OwnerID:  "seed-" + GenerateRandomID(12),
		Name:     name,
		Slug:     slug,
		Phone:    GenerateRandomPhone(),
		Email:    "contato@" + slug + ".example.com",
		Address:  fmt.Sprintf("Rua %s, %d", lastNames[mrand.Intn(len(lastNames))], mrand.Intn(2000)+1),
		Timezone: "America/Sao_Paulo",
	}
}

// GenerateRandomWeek builds a valid week: Sunday closed, weekdays with an
// optional lunch break, Saturday shorter.
func GenerateRandomWeek(barbershopID int64) []domain.DaySchedule {
	week := make([]domain.DaySchedule, 0, 7)

	for weekday := time.Sunday; weekday <= time.Saturday; weekday++ {
		day := domain.DaySchedule{
			BarbershopID: barbershopID,
			Weekday:      int32(weekday),
		}

		switch weekday {
		case time.Sunday:
			day.Active = false
		case time.Saturday:
			day.Active = true
			day.OpenTime = "08:00"
			day.CloseTime = fmt.Sprintf("%02d:00", 13+mrand.Intn(3))
		default:
			day.Active = true
			day.OpenTime = fmt.Sprintf("%02d:%s", 8+mrand.Intn(2), []string{"00", "30"}[mrand.Intn(2)])
			day.CloseTime = fmt.Sprintf("%02d:00", 18+mrand.Intn(3))
			if mrand.Intn(3) > 0 {
				day.BreakStart = "12:00"
				day.BreakEnd = []string{"13:00", "13:30"}[mrand.Intn(2)]
			}
		}

		week = append(week, day)
	}

	return week
}

// GenerateRandomServices picks n distinct services from the catalog.
func GenerateRandomServices(barbershopID int64, n int) []*domain.Service {
	n = min(n, len(serviceCatalog))
	order := mrand.Perm(len(serviceCatalog))[:n]

	services := make([]*domain.Service, 0, n)
	for _, i := range order {
		item := serviceCatalog[i]
		services = append(services, &domain.Service{
			BarbershopID:    barbershopID,
			Name:            item.name,
			DurationMinutes: item.duration,
			PriceCents:      item.price,
			IsActive:        true,
		})
	}

	return services
}

func GenerateRandomBarber(barbershopID int64, emailDomain string) *domain.Barber {
	fullName := GenerateRandomFullName()
	return &domain.Barber{
		BarbershopID: barbershopID,
		FullName:     fullName,
		Email:        Slugify(fullName) + GenerateRandomID(3) + "@" + emailDomain,
		Phone:        GenerateRandomPhone(),
		IsActive:     true,
	}
}
