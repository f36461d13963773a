package pagination

import "strconv"

// PageSize — количество записей на страницу
const PageSize = 10

// Data — все, что нужно шаблону для отрисовки постраничной навигации
type Data struct {
	CurrentPage int
	TotalPages  int
	NextPage    int
	PrevPage    int
	HasNext     bool
	HasPrev     bool
}

// ParsePage разбирает query-параметр page (нумерация с 1).
// Мусор и отсутствующее значение дают первую страницу.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Offset — смещение для запроса к хранилищу
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

func New(page, pageSize, totalItems int) Data {
	totalPages := (totalItems + pageSize - 1) / pageSize
	return Data{
		CurrentPage: page,
		TotalPages:  totalPages,
		NextPage:    page + 1,
		PrevPage:    page - 1,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
