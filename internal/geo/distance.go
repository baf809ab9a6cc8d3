package geo

import "math"

// earthRadiusKM — средний радиус Земли в километрах.
const earthRadiusKM = 6371

// Distance возвращает расстояние по дуге большого круга между двумя
// координатами в километрах (формула гаверсинусов). Входные значения —
// градусы. Функция чистая и симметричная: Distance(A,B) == Distance(B,A),
// для совпадающих точек возвращает 0.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
