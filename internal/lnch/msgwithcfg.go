//    TextClusterLab
//    Copyright: E Gunderson 2026
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"github.com/e-gun/TextClusterLab/internal/mm"
	"github.com/e-gun/TextClusterLab/internal/vv"
)

func NewMessageMakerConfigured() *mm.MessageMaker {
	m := mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION, Config.LogLevel)
	m.BW = Config.BlackAndWhite
	return m
}

func NewMessageMakerWithDefaults() *mm.MessageMaker {
	return mm.NewMessageMaker(vv.MYNAME, vv.SHORTNAME, vv.VERSION, vv.DEFAULTGOLOGLEVEL)
}

func UpdateMessageMakerWithConfig(m *mm.MessageMaker) {
	m.BW = Config.BlackAndWhite
	m.LLvl = Config.LogLevel
}
