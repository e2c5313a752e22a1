package controller

import "strconv"

const (
	RouteList = "/"
	RouteAdd  = "/add"
)

// EditRoute возвращает маршрут формы редактирования товара.
func EditRoute(id int64) string {
	return "/edit/" + strconv.FormatInt(id, 10)
}

// Navigator переключает экран фронтенда.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc позволяет использовать функцию как Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) {
	f(route)
}
