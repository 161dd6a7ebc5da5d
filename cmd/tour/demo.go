package main

import "citytour/internal/model"

var demoCities = []model.City{
	{Name: "Jiloyork", Lat: 19.916012, Lon: -99.580580},
	{Name: "Toluca", Lat: 19.289165, Lon: -99.655697},
	{Name: "Atlacomulco", Lat: 19.799520, Lon: -99.873844},
	{Name: "Guadalajara", Lat: 20.677754472859146, Lon: -103.34625354877137},
	{Name: "Monterrey", Lat: 25.69161110159454, Lon: -100.321838480256},
	{Name: "QuintanaRoo", Lat: 21.163111924844458, Lon: -86.80231502121464},
	{Name: "Michohacan", Lat: 19.701400113725654, Lon: -101.20829680213464},
	{Name: "Aguascalientes", Lat: 21.87641043660486, Lon: -102.26438663286967},
	{Name: "CDMX", Lat: 19.432713075976878, Lon: -99.13318344772986},
	{Name: "QRO", Lat: 20.59719437542255, Lon: -100.38667040246602},
}
