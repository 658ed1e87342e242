package validate

import "regexp"

func Email(email string) bool {
	re := regexp.MustCompile(`(?i)^([a-z0-9](?:[a-z0-9&'+=_\.-]+)?)@([a-z0-9_-]+)(\.[a-z0-9_-]+)*(\.[a-z]{2,})+$`)
	return re.MatchString(email)
}

func Phone(phone string) bool {
	re := regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	return re.MatchString(phone)
}

func Username(name string) bool {
	re := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]{1,63}$`)
	return re.MatchString(name)
}

func Password(password string) bool {
	return len(password) >= 8
}

func Required(text string) bool {
	return len(text) > 0
}

func MaxLength(text string, length int) bool {
	return len(text) <= length
}

func UUID(uuid string) bool {
	re := regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
	return re.MatchString(uuid)
}
